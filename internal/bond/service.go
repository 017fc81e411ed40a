// Package bond assembles exchange data into the issue and cash-flow tables
// and computes yields over the payment schedule.
package bond

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "moex-bonds/internal/errors"
	"moex-bonds/internal/models"
	"moex-bonds/internal/moex"
	"moex-bonds/pkg/utils"
)

// HistoryWindowDays is how far back the average-volume window reaches.
const HistoryWindowDays = 14

// Service composes ISS calls into assembled bond tables.
type Service struct {
	iss    moex.ISS
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a bond service over an ISS feed.
func NewService(iss moex.ISS, logger zerolog.Logger) *Service {
	return &Service{
		iss:    iss,
		logger: logger.With().Str("component", "bond").Logger(),
		now:    utils.NowMoscow,
	}
}

// Info fetches reference, market, history and schedule blocks for one bond
// and assembles the issue and cash-flow tables. Both tables are built fresh
// from the live feed on every call.
func (s *Service) Info(ctx context.Context, secID string) (*models.Issue, *models.Cashflow, error) {
	secID = moex.NormalizeCode(secID)
	if err := moex.ValidateCode(secID); err != nil {
		return nil, nil, err
	}

	desc, err := s.iss.Description(ctx, secID)
	if err != nil {
		return nil, nil, err
	}
	if desc.Empty() {
		return nil, nil, apperrors.Wrapf(apperrors.ErrSecurityNotFound, "no data for security %s", secID)
	}

	market, err := s.iss.MarketData(ctx, secID)
	if err != nil {
		return nil, nil, err
	}

	from, till := utils.HistoryWindow(s.now(), HistoryWindowDays)
	history, err := s.iss.History(ctx, secID, from, till)
	if err != nil {
		return nil, nil, err
	}

	issue, err := buildIssue(secID, desc, market, history)
	if err != nil {
		return nil, nil, err
	}

	sched, err := s.iss.Bondization(ctx, secID)
	if err != nil {
		return nil, nil, err
	}

	cashflow, err := buildCashflow(secID, sched, issue)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug().
		Str("secid", secID).
		Int("issue_rows", len(issue.Rows)).
		Int("events", len(cashflow.Rows)).
		Msg("bond info assembled")
	return issue, cashflow, nil
}

// ValuationDate returns the trade date yields are valued at.
func (s *Service) ValuationDate() time.Time {
	return utils.TradeDate(s.now())
}
