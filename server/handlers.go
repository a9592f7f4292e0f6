package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/coins"
	"github.com/gin-gonic/gin"
)

// Market data.

func (s *Server) topCoins(c *gin.Context) {
	limit := coins.PortfolioSnapshotSize
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			fail(c, fmt.Errorf("invalid limit %q: %w", l, errBadRequest))
			return
		}
		limit = n
	}
	snapshot, err := s.market.TopCoins(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) search(c *gin.Context) {
	results, err := s.market.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, err)
		return
	}
	if results == nil {
		results = []coins.SearchResult{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) coin(c *gin.Context) {
	details, err := s.market.Coin(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// timeframe reads the "days" query parameter, defaulting to def.
func timeframe(c *gin.Context, def coins.Timeframe) (coins.Timeframe, error) {
	days := c.Query("days")
	if days == "" {
		return def, nil
	}
	tf, err := coins.ParseTimeframe(days)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, errBadRequest)
	}
	return tf, nil
}

func (s *Server) history(c *gin.Context) {
	tf, err := timeframe(c, coins.TimeframeDefault)
	if err != nil {
		fail(c, err)
		return
	}
	series, err := s.market.History(c.Request.Context(), c.Param("id"), tf)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) global(c *gin.Context) {
	g, err := s.market.Global(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (s *Server) dominance(c *gin.Context) {
	g, err := s.market.Global(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coins.Dominance(g.MarketCapPercentage))
}

func (s *Server) movers(c *gin.Context) {
	snapshot, err := s.market.TopCoins(c.Request.Context(), coins.PortfolioSnapshotSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coins.Movers(snapshot))
}

// Sessions.

func (s *Server) newSession(c *gin.Context) {
	c.JSON(http.StatusCreated, s.sessions.New())
}

func (s *Server) session(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("sid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// update applies a to the session and replies with the new session.
func (s *Server) update(c *gin.Context, a coins.Action) {
	sess, err := s.sessions.Update(c.Param("sid"), a)
	if err != nil {
		fail(c, err)
		return
	}
	s.log.WithField("session", sess.ID).Debugf("applied %T", a)
	c.JSON(http.StatusOK, sess)
}

type holdingRequest struct {
	CoinID string         `json:"coin_id"`
	Amount coins.Quantity `json:"amount"`
}

type watchRequest struct {
	CoinID string `json:"coin_id"`
}

func (s *Server) portfolio(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("sid"))
	if err != nil {
		fail(c, err)
		return
	}
	v := coins.ValueSnapshot(c.Request.Context(), s.market, sess.Portfolio)
	if v.Err != nil {
		fail(c, v.Err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) addHolding(c *gin.Context) {
	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("invalid holding: %v: %w", err, errBadRequest))
		return
	}
	s.update(c, coins.AddHolding{CoinID: req.CoinID, Amount: req.Amount})
}

func (s *Server) removeHolding(c *gin.Context) {
	s.update(c, coins.RemoveHolding{CoinID: c.Param("coin")})
}

func (s *Server) clearPortfolio(c *gin.Context) {
	s.update(c, coins.ClearPortfolio{})
}

// watchedCoin is a watched coin with its price change over the requested
// timeframe, when available.
type watchedCoin struct {
	coins.MarketCoin
	Changes []coins.ChangePoint `json:"changes,omitempty"`
}

type watchlistResponse struct {
	Coins   []watchedCoin `json:"coins"`
	Missing []string      `json:"missing,omitempty"`
}

func (s *Server) watchlist(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("sid"))
	if err != nil {
		fail(c, err)
		return
	}
	tf, err := timeframe(c, "")
	if err != nil {
		fail(c, err)
		return
	}
	res := watchlistResponse{Coins: []watchedCoin{}}
	if sess.Watchlist.IsEmpty() {
		c.JSON(http.StatusOK, res)
		return
	}
	ctx := c.Request.Context()
	snapshot, err := s.market.TopCoins(ctx, coins.PortfolioSnapshotSize)
	if err != nil {
		fail(c, err)
		return
	}
	cmp := coins.CompareWatchlist(sess.Watchlist, snapshot)
	res.Missing = cmp.Missing
	var histories map[string][]coins.ChangePoint
	if tf != "" {
		histories = make(map[string][]coins.ChangePoint)
		for id, r := range s.market.HistoryAll(ctx, sess.Watchlist.IDs(), tf) {
			if r.Err != nil {
				s.log.WithField("coin", id).Warnf("history unavailable: %v", r.Err)
				continue
			}
			histories[id] = r.Series.Normalized()
		}
	}
	for _, coin := range cmp.Coins {
		res.Coins = append(res.Coins, watchedCoin{MarketCoin: coin, Changes: histories[coin.ID]})
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) watch(c *gin.Context) {
	var req watchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("invalid coin: %v: %w", err, errBadRequest))
		return
	}
	s.update(c, coins.Watch{CoinID: req.CoinID})
}

func (s *Server) unwatch(c *gin.Context) {
	s.update(c, coins.Unwatch{CoinID: c.Param("coin")})
}

func (s *Server) clearWatchlist(c *gin.Context) {
	s.update(c, coins.ClearWatchlist{})
}
