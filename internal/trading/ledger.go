// Package trading implements the virtual trading ledger: wallet,
// portfolio and append-only transaction history.
package trading

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	apperrors "equiverse/internal/errors"
	"equiverse/internal/gamification"
	"equiverse/internal/logging"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

// Ledger executes virtual trades for one user against the persisted
// snapshot. A trade either fully applies or leaves the snapshot untouched.
type Ledger struct {
	userID string
	store  store.DataStore
	xp     *gamification.Manager
	logger zerolog.Logger

	now func() time.Time
}

// NewLedger creates a trading ledger bound to a user.
func NewLedger(userID string, ds store.DataStore, xp *gamification.Manager, logger zerolog.Logger) *Ledger {
	return &Ledger{
		userID: userID,
		store:  ds,
		xp:     xp,
		logger: logging.WithUser(logger, userID),
		now:    time.Now,
	}
}

// Snapshot returns the current trading state.
func (l *Ledger) Snapshot(ctx context.Context) (*models.TradingSnapshot, error) {
	return l.store.LoadSnapshot(ctx, l.userID)
}

// Buy purchases qty shares of symbol at price. An existing position is
// merged at the volume-weighted average cost; otherwise a new position
// opens. Returns the recorded transaction.
func (l *Ledger) Buy(ctx context.Context, symbol string, qty int, price float64) (*models.Transaction, error) {
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol", symbol, "symbol must not be empty")
	}
	if qty <= 0 {
		return nil, apperrors.NewTradeError(symbol, string(models.TradeActionBuy), "quantity must be positive", apperrors.ErrInvalidTrade)
	}
	if price <= 0 {
		return nil, apperrors.NewTradeError(symbol, string(models.TradeActionBuy), "price must be positive", apperrors.ErrInvalidTrade)
	}

	snap, err := l.store.LoadSnapshot(ctx, l.userID)
	if err != nil {
		return nil, err
	}

	totalCost := price * float64(qty)
	if totalCost > snap.WalletBalance {
		return nil, apperrors.NewTradeError(symbol, string(models.TradeActionBuy), "wallet balance too low", apperrors.ErrInsufficientFunds)
	}

	merged := false
	for i, pos := range snap.Portfolio {
		if pos.Symbol != symbol {
			continue
		}
		newQty := pos.Quantity + qty
		snap.Portfolio[i].BuyPrice = (pos.BuyPrice*float64(pos.Quantity) + price*float64(qty)) / float64(newQty)
		snap.Portfolio[i].Quantity = newQty
		snap.Portfolio[i].CurrentPrice = price
		merged = true
		break
	}
	if !merged {
		snap.Portfolio = append(snap.Portfolio, models.Position{
			Symbol:       symbol,
			Quantity:     qty,
			BuyPrice:     price,
			CurrentPrice: price,
		})
	}

	tx := models.Transaction{
		ID:        l.nextID(),
		Type:      models.TradeActionBuy,
		Symbol:    symbol,
		Quantity:  qty,
		Price:     price,
		Total:     totalCost,
		Timestamp: l.now(),
	}
	snap.Transactions = append([]models.Transaction{tx}, snap.Transactions...)
	snap.WalletBalance -= totalCost

	if err := l.store.SaveSnapshot(ctx, l.userID, snap); err != nil {
		return nil, err
	}

	logging.LogTrade(l.logger, symbol, string(models.TradeActionBuy), qty, price)

	if _, err := l.xp.AwardForTrade(ctx, qty, nil); err != nil {
		l.logger.Warn().Err(err).Msg("Trade XP award failed")
	}
	if err := l.xp.RecordTradeActivity(ctx); err != nil {
		l.logger.Warn().Err(err).Msg("Trade activity update failed")
	}

	return &tx, nil
}

// Sell closes the whole position in symbol at price and credits the
// proceeds. Returns the recorded transaction with its realized profit.
func (l *Ledger) Sell(ctx context.Context, symbol string, price float64) (*models.Transaction, error) {
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol", symbol, "symbol must not be empty")
	}
	if price <= 0 {
		return nil, apperrors.NewTradeError(symbol, string(models.TradeActionSell), "price must be positive", apperrors.ErrInvalidTrade)
	}

	snap, err := l.store.LoadSnapshot(ctx, l.userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, pos := range snap.Portfolio {
		if pos.Symbol == symbol {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewTradeError(symbol, string(models.TradeActionSell), "no open position", apperrors.ErrPositionNotFound)
	}

	pos := snap.Portfolio[idx]
	totalValue := price * float64(pos.Quantity)
	profit := (price - pos.BuyPrice) * float64(pos.Quantity)

	tx := models.Transaction{
		ID:        l.nextID(),
		Type:      models.TradeActionSell,
		Symbol:    symbol,
		Quantity:  pos.Quantity,
		Price:     price,
		Total:     totalValue,
		Profit:    &profit,
		Timestamp: l.now(),
	}

	snap.Portfolio = append(snap.Portfolio[:idx], snap.Portfolio[idx+1:]...)
	snap.Transactions = append([]models.Transaction{tx}, snap.Transactions...)
	snap.WalletBalance += totalValue

	if err := l.store.SaveSnapshot(ctx, l.userID, snap); err != nil {
		return nil, err
	}

	logging.LogTrade(l.logger, symbol, string(models.TradeActionSell), pos.Quantity, price)

	if _, err := l.xp.AwardForTrade(ctx, pos.Quantity, &profit); err != nil {
		l.logger.Warn().Err(err).Msg("Trade XP award failed")
	}
	if err := l.xp.RecordTradeActivity(ctx); err != nil {
		l.logger.Warn().Err(err).Msg("Trade activity update failed")
	}

	return &tx, nil
}

// UpdatePrices refreshes the current price of held positions from the
// given symbol-to-price map and persists the snapshot.
func (l *Ledger) UpdatePrices(ctx context.Context, prices map[string]float64) error {
	snap, err := l.store.LoadSnapshot(ctx, l.userID)
	if err != nil {
		return err
	}

	changed := false
	for i, pos := range snap.Portfolio {
		if price, ok := prices[pos.Symbol]; ok && price > 0 {
			snap.Portfolio[i].CurrentPrice = price
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return l.store.SaveSnapshot(ctx, l.userID, snap)
}

// PortfolioValue returns the market value of all open positions.
func PortfolioValue(snap *models.TradingSnapshot) float64 {
	var total float64
	for _, pos := range snap.Portfolio {
		total += pos.CurrentPrice * float64(pos.Quantity)
	}
	return total
}

// UnrealizedPnL returns the total unrealized profit/loss across positions.
func UnrealizedPnL(snap *models.TradingSnapshot) float64 {
	var total float64
	for _, pos := range snap.Portfolio {
		total += pos.PnL()
	}
	return total
}

// TradeHistory derives the analyzer-facing trade records from the
// transaction log, oldest first.
func (l *Ledger) TradeHistory(ctx context.Context) ([]models.TradeRecord, error) {
	snap, err := l.store.LoadSnapshot(ctx, l.userID)
	if err != nil {
		return nil, err
	}
	return DeriveTradeRecords(snap), nil
}

// DeriveTradeRecords converts the newest-first transaction log into
// oldest-first trade records. Sells carry their realized profit and a
// holding period measured in days since the most recent prior buy of
// the same symbol. Risk level scales trade size against the starting
// wallet, capped at 10.
func DeriveTradeRecords(snap *models.TradingSnapshot) []models.TradeRecord {
	n := len(snap.Transactions)
	records := make([]models.TradeRecord, 0, n)

	// walk oldest to newest
	lastBuy := make(map[string]time.Time)
	for i := n - 1; i >= 0; i-- {
		tx := snap.Transactions[i]

		record := models.TradeRecord{
			Symbol:    tx.Symbol,
			Action:    tx.Type,
			Amount:    tx.Total,
			Profit:    tx.Profit,
			RiskLevel: riskLevelFor(tx.Total),
			Timestamp: tx.Timestamp,
		}

		switch tx.Type {
		case models.TradeActionBuy:
			lastBuy[tx.Symbol] = tx.Timestamp
		case models.TradeActionSell:
			if bought, ok := lastBuy[tx.Symbol]; ok {
				record.HoldingPeriod = tx.Timestamp.Sub(bought).Hours() / 24
			}
		}

		records = append(records, record)
	}
	return records
}

func riskLevelFor(amount float64) float64 {
	risk := amount / models.DefaultWalletBalance * 10
	if risk > 10 {
		risk = 10
	}
	return risk
}

func (l *Ledger) nextID() string {
	return strconv.FormatInt(l.now().UnixNano()/int64(time.Millisecond), 10)
}
