package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"matka/models"
)

// Memory is the transient Store implementation. It backs unit tests and
// dev mode and mirrors the transactional semantics of the durable store:
// Atomic snapshots the state and restores it when fn fails.
type Memory struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	users        map[uint]models.User
	markets      map[uint]models.Market
	gameTypes    map[uint]models.GameType
	bets         map[uint]models.Bet
	transactions []models.Transaction

	nextUserID     uint
	nextMarketID   uint
	nextGameTypeID uint
	nextBetID      uint
	nextTrxID      uint
}

func NewMemory() *Memory {
	return &Memory{
		state: memState{
			users:          make(map[uint]models.User),
			markets:        make(map[uint]models.Market),
			gameTypes:      make(map[uint]models.GameType),
			bets:           make(map[uint]models.Bet),
			nextUserID:     1,
			nextMarketID:   1,
			nextGameTypeID: 1,
			nextBetID:      1,
			nextTrxID:      1,
		},
	}
}

func (st *memState) clone() memState {
	c := memState{
		users:          make(map[uint]models.User, len(st.users)),
		markets:        make(map[uint]models.Market, len(st.markets)),
		gameTypes:      make(map[uint]models.GameType, len(st.gameTypes)),
		bets:           make(map[uint]models.Bet, len(st.bets)),
		transactions:   make([]models.Transaction, len(st.transactions)),
		nextUserID:     st.nextUserID,
		nextMarketID:   st.nextMarketID,
		nextGameTypeID: st.nextGameTypeID,
		nextBetID:      st.nextBetID,
		nextTrxID:      st.nextTrxID,
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.markets {
		c.markets[k] = v
	}
	for k, v := range st.gameTypes {
		c.gameTypes[k] = v
	}
	for k, v := range st.bets {
		c.bets[k] = v
	}
	copy(c.transactions, st.transactions)
	return c
}

// Atomic serializes all writers through the store mutex and restores the
// pre-transaction snapshot when fn returns an error, so a failed scope
// leaves no partial state behind.
func (m *Memory) Atomic(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.state.clone()
	if err := fn(&memoryTx{state: &m.state}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.createUser(user)
}

func (m *Memory) GetUser(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getUser(id)
}

func (m *Memory) GetUserForUpdate(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getUser(id)
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getUserByUsername(username)
}

func (m *Memory) UpdateUserBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.updateUserBalance(id, balance)
}

func (m *Memory) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listUsers()
}

func (m *Memory) CreateMarket(ctx context.Context, market *models.Market) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.createMarket(market)
}

func (m *Memory) GetMarket(ctx context.Context, id uint) (*models.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getMarket(id)
}

func (m *Memory) ListMarkets(ctx context.Context) ([]models.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listMarkets()
}

func (m *Memory) ListMarketsByStatus(ctx context.Context, statuses ...string) ([]models.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listMarketsByStatus(statuses)
}

func (m *Memory) SetMarketStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.setMarketStatus(id, from, to)
}

func (m *Memory) MarkMarketResulted(ctx context.Context, id uint, result string, declaredBy uint, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.markMarketResulted(id, result, declaredBy, at)
}

func (m *Memory) CreateGameType(ctx context.Context, gt *models.GameType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.createGameType(gt)
}

func (m *Memory) GetGameType(ctx context.Context, id uint) (*models.GameType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getGameType(id)
}

func (m *Memory) ListGameTypes(ctx context.Context) ([]models.GameType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listGameTypes()
}

func (m *Memory) GetGameTypesByID(ctx context.Context, ids []uint) ([]models.GameType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getGameTypesByID(ids)
}

func (m *Memory) CreateBet(ctx context.Context, bet *models.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.createBet(bet)
}

func (m *Memory) GetBet(ctx context.Context, id uint) (*models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getBet(id)
}

func (m *Memory) ListMarketBetsByStatus(ctx context.Context, marketID uint, status string) ([]models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listMarketBetsByStatus(marketID, status)
}

func (m *Memory) ListUserBets(ctx context.Context, userID uint) ([]models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listUserBets(userID)
}

func (m *Memory) ListBets(ctx context.Context) ([]models.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listBets()
}

func (m *Memory) SettleBet(ctx context.Context, betID uint, status string, winAmount decimal.Decimal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.settleBet(betID, status, winAmount)
}

func (m *Memory) CreateTransaction(ctx context.Context, trx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.createTransaction(trx)
}

func (m *Memory) ListUserTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.listUserTransactions(userID)
}

// memoryTx is the view handed to Atomic callbacks. The enclosing Atomic
// already holds the store mutex, so methods hit the state directly. A
// nested Atomic joins the outer scope: its error rolls back everything.
type memoryTx struct {
	state *memState
}

func (t *memoryTx) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

func (t *memoryTx) CreateUser(ctx context.Context, user *models.User) error {
	return t.state.createUser(user)
}

func (t *memoryTx) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return t.state.getUser(id)
}

func (t *memoryTx) GetUserForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return t.state.getUser(id)
}

func (t *memoryTx) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return t.state.getUserByUsername(username)
}

func (t *memoryTx) UpdateUserBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return t.state.updateUserBalance(id, balance)
}

func (t *memoryTx) ListUsers(ctx context.Context) ([]models.User, error) {
	return t.state.listUsers()
}

func (t *memoryTx) CreateMarket(ctx context.Context, market *models.Market) error {
	return t.state.createMarket(market)
}

func (t *memoryTx) GetMarket(ctx context.Context, id uint) (*models.Market, error) {
	return t.state.getMarket(id)
}

func (t *memoryTx) ListMarkets(ctx context.Context) ([]models.Market, error) {
	return t.state.listMarkets()
}

func (t *memoryTx) ListMarketsByStatus(ctx context.Context, statuses ...string) ([]models.Market, error) {
	return t.state.listMarketsByStatus(statuses)
}

func (t *memoryTx) SetMarketStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	return t.state.setMarketStatus(id, from, to)
}

func (t *memoryTx) MarkMarketResulted(ctx context.Context, id uint, result string, declaredBy uint, at time.Time) (bool, error) {
	return t.state.markMarketResulted(id, result, declaredBy, at)
}

func (t *memoryTx) CreateGameType(ctx context.Context, gt *models.GameType) error {
	return t.state.createGameType(gt)
}

func (t *memoryTx) GetGameType(ctx context.Context, id uint) (*models.GameType, error) {
	return t.state.getGameType(id)
}

func (t *memoryTx) ListGameTypes(ctx context.Context) ([]models.GameType, error) {
	return t.state.listGameTypes()
}

func (t *memoryTx) GetGameTypesByID(ctx context.Context, ids []uint) ([]models.GameType, error) {
	return t.state.getGameTypesByID(ids)
}

func (t *memoryTx) CreateBet(ctx context.Context, bet *models.Bet) error {
	return t.state.createBet(bet)
}

func (t *memoryTx) GetBet(ctx context.Context, id uint) (*models.Bet, error) {
	return t.state.getBet(id)
}

func (t *memoryTx) ListMarketBetsByStatus(ctx context.Context, marketID uint, status string) ([]models.Bet, error) {
	return t.state.listMarketBetsByStatus(marketID, status)
}

func (t *memoryTx) ListUserBets(ctx context.Context, userID uint) ([]models.Bet, error) {
	return t.state.listUserBets(userID)
}

func (t *memoryTx) ListBets(ctx context.Context) ([]models.Bet, error) {
	return t.state.listBets()
}

func (t *memoryTx) SettleBet(ctx context.Context, betID uint, status string, winAmount decimal.Decimal) (bool, error) {
	return t.state.settleBet(betID, status, winAmount)
}

func (t *memoryTx) CreateTransaction(ctx context.Context, trx *models.Transaction) error {
	return t.state.createTransaction(trx)
}

func (t *memoryTx) ListUserTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return t.state.listUserTransactions(userID)
}

// --- state operations ---

func (st *memState) createUser(user *models.User) error {
	user.ID = st.nextUserID
	st.nextUserID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	st.users[user.ID] = *user
	return nil
}

func (st *memState) getUser(id uint) (*models.User, error) {
	user, ok := st.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (st *memState) getUserByUsername(username string) (*models.User, error) {
	for _, user := range st.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (st *memState) updateUserBalance(id uint, balance decimal.Decimal) error {
	user, ok := st.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Balance = balance
	user.UpdatedAt = time.Now()
	st.users[id] = user
	return nil
}

func (st *memState) listUsers() ([]models.User, error) {
	users := make([]models.User, 0, len(st.users))
	for _, u := range st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (st *memState) createMarket(market *models.Market) error {
	market.ID = st.nextMarketID
	st.nextMarketID++
	market.CreatedAt = time.Now()
	market.UpdatedAt = market.CreatedAt
	if market.Status == "" {
		market.Status = models.MarketPending
	}
	st.markets[market.ID] = *market
	return nil
}

func (st *memState) getMarket(id uint) (*models.Market, error) {
	market, ok := st.markets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &market, nil
}

func (st *memState) listMarkets() ([]models.Market, error) {
	markets := make([]models.Market, 0, len(st.markets))
	for _, m := range st.markets {
		markets = append(markets, m)
	}
	sort.Slice(markets, func(i, j int) bool {
		return markets[i].OpeningTime.After(markets[j].OpeningTime)
	})
	return markets, nil
}

func (st *memState) listMarketsByStatus(statuses []string) ([]models.Market, error) {
	var markets []models.Market
	for _, m := range st.markets {
		for _, s := range statuses {
			if m.Status == s {
				markets = append(markets, m)
				break
			}
		}
	}
	sort.Slice(markets, func(i, j int) bool {
		return markets[i].ClosingTime.Before(markets[j].ClosingTime)
	})
	return markets, nil
}

func (st *memState) setMarketStatus(id uint, from, to string) (bool, error) {
	market, ok := st.markets[id]
	if !ok || market.Status != from {
		return false, nil
	}
	market.Status = to
	market.UpdatedAt = time.Now()
	st.markets[id] = market
	return true, nil
}

func (st *memState) markMarketResulted(id uint, result string, declaredBy uint, at time.Time) (bool, error) {
	market, ok := st.markets[id]
	if !ok || market.Status != models.MarketClosed {
		return false, nil
	}
	market.Status = models.MarketResulted
	market.Result = &result
	market.ResultDeclaredAt = &at
	market.ResultDeclaredBy = &declaredBy
	market.UpdatedAt = at
	st.markets[id] = market
	return true, nil
}

func (st *memState) createGameType(gt *models.GameType) error {
	gt.ID = st.nextGameTypeID
	st.nextGameTypeID++
	gt.CreatedAt = time.Now()
	gt.UpdatedAt = gt.CreatedAt
	st.gameTypes[gt.ID] = *gt
	return nil
}

func (st *memState) getGameType(id uint) (*models.GameType, error) {
	gt, ok := st.gameTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &gt, nil
}

func (st *memState) listGameTypes() ([]models.GameType, error) {
	gts := make([]models.GameType, 0, len(st.gameTypes))
	for _, gt := range st.gameTypes {
		gts = append(gts, gt)
	}
	sort.Slice(gts, func(i, j int) bool { return gts[i].ID < gts[j].ID })
	return gts, nil
}

func (st *memState) getGameTypesByID(ids []uint) ([]models.GameType, error) {
	var gts []models.GameType
	for _, id := range ids {
		if gt, ok := st.gameTypes[id]; ok {
			gts = append(gts, gt)
		}
	}
	return gts, nil
}

func (st *memState) createBet(bet *models.Bet) error {
	bet.ID = st.nextBetID
	st.nextBetID++
	bet.CreatedAt = time.Now()
	bet.UpdatedAt = bet.CreatedAt
	if bet.Status == "" {
		bet.Status = models.BetPending
	}
	st.bets[bet.ID] = *bet
	return nil
}

func (st *memState) getBet(id uint) (*models.Bet, error) {
	bet, ok := st.bets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &bet, nil
}

func (st *memState) listMarketBetsByStatus(marketID uint, status string) ([]models.Bet, error) {
	var bets []models.Bet
	for _, b := range st.bets {
		if b.MarketID == marketID && b.Status == status {
			bets = append(bets, b)
		}
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].ID < bets[j].ID })
	return bets, nil
}

func (st *memState) listUserBets(userID uint) ([]models.Bet, error) {
	var bets []models.Bet
	for _, b := range st.bets {
		if b.UserID == userID {
			bets = append(bets, b)
		}
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].PlacedAt.After(bets[j].PlacedAt) })
	return bets, nil
}

func (st *memState) listBets() ([]models.Bet, error) {
	bets := make([]models.Bet, 0, len(st.bets))
	for _, b := range st.bets {
		bets = append(bets, b)
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].PlacedAt.After(bets[j].PlacedAt) })
	return bets, nil
}

func (st *memState) settleBet(betID uint, status string, winAmount decimal.Decimal) (bool, error) {
	bet, ok := st.bets[betID]
	if !ok || bet.Status != models.BetPending {
		return false, nil
	}
	bet.Status = status
	bet.WinAmount = &winAmount
	bet.UpdatedAt = time.Now()
	st.bets[betID] = bet
	return true, nil
}

func (st *memState) createTransaction(trx *models.Transaction) error {
	trx.ID = st.nextTrxID
	st.nextTrxID++
	trx.CreatedAt = time.Now()
	trx.UpdatedAt = trx.CreatedAt
	st.transactions = append(st.transactions, *trx)
	return nil
}

func (st *memState) listUserTransactions(userID uint) ([]models.Transaction, error) {
	var trxs []models.Transaction
	for i := len(st.transactions) - 1; i >= 0; i-- {
		if st.transactions[i].UserID == userID {
			trxs = append(trxs, st.transactions[i])
		}
	}
	return trxs, nil
}
