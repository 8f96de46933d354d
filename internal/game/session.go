package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/event"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// State is the wager session lifecycle state.
type State string

const (
	StateBetting State = "betting"
	StateLocked  State = "locked"
	StateSettled State = "settled"
)

// Session is the wager lifecycle controller for one member playing one
// game: it accepts bets while betting, locks them for resolution, and
// settles exactly once through the ledger. It is the only component
// that talks to the ledger.
type Session struct {
	mu sync.Mutex

	playerID string
	rules    Rules
	ledger   ledger.Ledger
	src      rng.Source
	shoe     *Shoe
	bus      *event.Bus
	log      zerolog.Logger

	// onSettled archives the finished round; onOwed records a payout
	// the ledger could not credit. Both optional.
	onSettled func(ctx context.Context, rec *domain.RoundRecord)
	onOwed    func(ctx context.Context, playerID string, amount int64, ref string)

	state         State
	wager         *domain.Wager
	balanceBefore int64
	revealSeq     int
	hand          *BlackjackOutcome
	lastPayout    *domain.PayoutResult
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithBus attaches the presentation event bus.
func WithBus(bus *event.Bus) SessionOption {
	return func(s *Session) { s.bus = bus }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithSettledHook sets the round-archive callback.
func WithSettledHook(fn func(ctx context.Context, rec *domain.RoundRecord)) SessionOption {
	return func(s *Session) { s.onSettled = fn }
}

// WithOwedHook sets the owed-payout callback.
func WithOwedHook(fn func(ctx context.Context, playerID string, amount int64, ref string)) SessionOption {
	return func(s *Session) { s.onOwed = fn }
}

// NewSession creates a session in the betting state. Card games get
// their own shoe; a session is owned by a single member's round and is
// never shared.
func NewSession(playerID string, rules Rules, lgr ledger.Ledger, src rng.Source, opts ...SessionOption) *Session {
	s := &Session{
		playerID: playerID,
		rules:    rules,
		ledger:   lgr,
		src:      src,
		log:      zerolog.Nop(),
		state:    StateBetting,
	}

	switch rules.Type() {
	case domain.GameBaccarat, domain.GameBlackjack:
		s.shoe = NewShoe(src)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Bets returns a copy of the active bets.
func (s *Session) Bets() []domain.Bet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wager == nil {
		return nil
	}
	out := make([]domain.Bet, len(s.wager.Bets))
	copy(out, s.wager.Bets)
	return out
}

// TotalStaked returns the points reserved for the active wager.
func (s *Session) TotalStaked() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wager == nil {
		return 0
	}
	return s.wager.TotalStaked
}

// PlaceBet validates and stakes one bet. The stake is debited from the
// ledger immediately, before any outcome exists; a failed debit leaves
// the session unchanged. A settled session rolls over into a fresh
// betting round first.
func (s *Session) PlaceBet(ctx context.Context, kind domain.BetKind, selector string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSettled {
		s.resetLocked()
	}
	if s.state != StateBetting {
		return ErrBetsLocked
	}

	// The double-down stake is added by the controller itself, never
	// placed directly.
	if kind == domain.BetDouble {
		return ErrInvalidSelector
	}

	bet := domain.Bet{Kind: kind, Selector: selector, Amount: amount}

	info := s.rules.Info()
	if amount <= 0 || amount < info.MinBet || amount > info.MaxBet {
		return ErrInvalidBetAmount
	}
	if err := s.rules.ValidateBet(bet); err != nil {
		return err
	}

	stake := s.rules.Stake(bet)

	if s.wager == nil {
		balance, err := s.ledger.Balance(ctx, s.playerID)
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
		}
		s.wager = &domain.Wager{
			Ref:      uuid.New().String(),
			PlayerID: s.playerID,
			GameType: s.rules.Type(),
			PlacedAt: time.Now().UTC(),
		}
		s.balanceBefore = balance
	}

	memo := fmt.Sprintf("%s bet", s.rules.Type())
	if _, err := s.ledger.Debit(ctx, s.playerID, stake, domain.TxTypeWager, s.wager.Ref, memo); err != nil {
		if s.wager.TotalStaked == 0 {
			s.wager = nil
		}
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return err
		}
		return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}

	s.wager.Bets = append(s.wager.Bets, bet)
	s.wager.TotalStaked += stake

	s.log.Debug().
		Str("player_id", s.playerID).
		Str("game", string(s.rules.Type())).
		Str("kind", string(kind)).
		Int64("amount", amount).
		Msg("bet placed")

	return nil
}

// ClearBets refunds every staked point and empties the bet list. Only
// valid while betting.
func (s *Session) ClearBets(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBetting {
		return ErrBetsLocked
	}
	if s.wager == nil || len(s.wager.Bets) == 0 {
		return ErrNoActiveBets
	}

	if _, err := s.ledger.Credit(ctx, s.playerID, s.wager.TotalStaked, domain.TxTypeRefund, s.wager.Ref, "bets cleared"); err != nil {
		// The stake stays reserved; the caller retries.
		return fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}

	s.wager = nil
	return nil
}

// Resolve locks the bets, asks the rule engine for an outcome, and
// settles it. Blackjack resolves through Deal and the hand actions
// instead.
func (s *Session) Resolve(ctx context.Context) (Outcome, *domain.PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSettled:
		return nil, nil, ErrAlreadyResolved
	case StateLocked:
		return nil, nil, ErrRoundInPlay
	}
	if s.wager == nil || len(s.wager.Bets) == 0 {
		return nil, nil, ErrNoActiveBets
	}
	if s.rules.Type() == domain.GameBlackjack {
		return nil, nil, ErrRoundInPlay
	}

	s.state = StateLocked

	outcome, err := s.rules.Deal(s.src, s.shoe, s.revealFunc())
	if err != nil {
		// The stake stays reserved; unlocking lets the caller retry
		// Resolve or ClearBets for a refund.
		s.state = StateBetting
		s.log.Error().Err(err).Str("player_id", s.playerID).Msg("outcome generation failed")
		return nil, nil, err
	}

	payout := s.settleLocked(ctx, outcome)
	return outcome, payout, nil
}

// Deal starts a blackjack hand: locks the bets and deals the initial
// cards. A natural settles immediately; otherwise the returned payout
// is nil and the hand waits for Hit, Stand or DoubleDown.
func (s *Session) Deal(ctx context.Context) (*BlackjackOutcome, *domain.PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bj, ok := s.rules.(*Blackjack)
	if !ok {
		return nil, nil, ErrNotBlackjack
	}

	switch s.state {
	case StateSettled:
		return nil, nil, ErrAlreadyResolved
	case StateLocked:
		return nil, nil, ErrRoundInPlay
	}
	if s.wager == nil || len(s.wager.Bets) == 0 {
		return nil, nil, ErrNoActiveBets
	}

	s.state = StateLocked

	outcome, err := bj.Deal(s.src, s.shoe, s.revealFunc())
	if err != nil {
		s.state = StateBetting
		s.log.Error().Err(err).Str("player_id", s.playerID).Msg("deal failed")
		return nil, nil, err
	}

	hand := outcome.(*BlackjackOutcome)
	s.hand = hand

	if hand.Terminal {
		payout := s.settleLocked(ctx, hand)
		return hand, payout, nil
	}
	return hand, nil, nil
}

// Hit draws one card for the player's blackjack hand.
func (s *Session) Hit(ctx context.Context) (*BlackjackOutcome, *domain.PayoutResult, error) {
	return s.handAction(ctx, func(bj *Blackjack) error {
		return bj.Hit(s.hand, s.shoe, s.revealFunc())
	})
}

// Stand ends the player's turn; the dealer plays out and the hand
// settles.
func (s *Session) Stand(ctx context.Context) (*BlackjackOutcome, *domain.PayoutResult, error) {
	return s.handAction(ctx, func(bj *Blackjack) error {
		return bj.Stand(s.hand, s.shoe, s.revealFunc())
	})
}

// DoubleDown doubles the stake with exactly two cards in hand, draws
// one card, and forces dealer resolution. The extra stake is debited
// before any card is drawn; a failed debit leaves the hand untouched.
func (s *Session) DoubleDown(ctx context.Context) (*BlackjackOutcome, *domain.PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bj, ok := s.rules.(*Blackjack)
	if !ok {
		return nil, nil, ErrNotBlackjack
	}
	if s.state != StateLocked || s.hand == nil {
		return nil, nil, ErrNoHandInPlay
	}
	if len(s.hand.playerCards) != 2 {
		return nil, nil, ErrDoubleNotAllowed
	}

	extra := s.wager.TotalStaked

	if _, err := s.ledger.Debit(ctx, s.playerID, extra, domain.TxTypeWager, s.wager.Ref, "blackjack double down"); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ledger.ErrUnavailable, err)
	}

	s.wager.Bets = append(s.wager.Bets, domain.Bet{Kind: domain.BetDouble, Amount: extra})
	s.wager.TotalStaked += extra

	if err := bj.Double(s.hand, s.shoe, s.revealFunc()); err != nil {
		s.log.Error().Err(err).Str("player_id", s.playerID).Msg("double down failed")
		return nil, nil, err
	}

	payout := s.settleLocked(ctx, s.hand)
	return s.hand, payout, nil
}

// handAction runs one blackjack action and settles when it ends the
// hand.
func (s *Session) handAction(ctx context.Context, action func(*Blackjack) error) (*BlackjackOutcome, *domain.PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bj, ok := s.rules.(*Blackjack)
	if !ok {
		return nil, nil, ErrNotBlackjack
	}
	if s.state != StateLocked || s.hand == nil {
		return nil, nil, ErrNoHandInPlay
	}

	if err := action(bj); err != nil {
		s.log.Error().Err(err).Str("player_id", s.playerID).Msg("hand action failed")
		return nil, nil, err
	}

	if s.hand.Terminal {
		payout := s.settleLocked(ctx, s.hand)
		return s.hand, payout, nil
	}
	return s.hand, nil, nil
}

// settleLocked computes the payout, credits it exactly once, archives
// the round, and moves the session to settled. Caller holds the lock
// and has verified the state.
func (s *Session) settleLocked(ctx context.Context, outcome Outcome) *domain.PayoutResult {
	credit, breakdown := s.rules.Settle(outcome, s.wager.Bets)

	payout := &domain.PayoutResult{
		WagerRef:     s.wager.Ref,
		CreditAmount: credit,
		Breakdown:    breakdown,
	}

	balanceAfter := s.balanceBefore - s.wager.TotalStaked

	if credit > 0 {
		after, err := s.ledger.Credit(ctx, s.playerID, credit, domain.TxTypeWin, s.wager.Ref, fmt.Sprintf("%s win", s.rules.Type()))
		if err != nil {
			// One immediate retry before recording the debt; a
			// computed win is never dropped.
			after, err = s.ledger.Credit(ctx, s.playerID, credit, domain.TxTypeWin, s.wager.Ref, fmt.Sprintf("%s win", s.rules.Type()))
			if err != nil {
				s.log.Error().Err(err).
					Str("player_id", s.playerID).
					Str("wager_ref", s.wager.Ref).
					Int64("credit", credit).
					Msg("payout credit failed, recording as owed")
				payout.Owed = true
				if s.onOwed != nil {
					s.onOwed(ctx, s.playerID, credit, s.wager.Ref)
				}
			}
		}
		if !payout.Owed {
			balanceAfter = after
		}
	}

	s.state = StateSettled
	s.lastPayout = payout
	s.hand = nil

	if s.onSettled != nil {
		outcomeJSON, _ := json.Marshal(outcome)
		s.onSettled(ctx, &domain.RoundRecord{
			ID:            s.wager.Ref,
			PlayerID:      s.playerID,
			GameType:      s.wager.GameType,
			Bets:          s.wager.Bets,
			TotalStaked:   s.wager.TotalStaked,
			CreditAmount:  credit,
			BalanceBefore: s.balanceBefore,
			BalanceAfter:  balanceAfter,
			Outcome:       outcomeJSON,
			SettledAt:     time.Now().UTC(),
		})
	}

	if s.bus != nil {
		s.bus.Publish(event.TopicSettled, event.Settled{
			PlayerID: s.playerID,
			GameType: s.rules.Type(),
			Outcome:  outcome,
			Payout:   *payout,
		})
	}

	return payout
}

// revealFunc publishes intermediate reveal events for the presentation
// layer; caller holds the lock.
func (s *Session) revealFunc() RevealFunc {
	if s.bus == nil {
		return nil
	}
	return func(stage string, value any) {
		s.revealSeq++
		s.bus.Publish(event.TopicReveal, event.Reveal{
			PlayerID: s.playerID,
			GameType: s.rules.Type(),
			Seq:      s.revealSeq,
			Stage:    stage,
			Value:    value,
		})
	}
}

// resetLocked rolls a settled session into a fresh betting round; the
// shoe carries over. Caller holds the lock.
func (s *Session) resetLocked() {
	s.state = StateBetting
	s.wager = nil
	s.hand = nil
	s.lastPayout = nil
	s.revealSeq = 0
}
