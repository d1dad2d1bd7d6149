package services

import (
	"context"
	"fmt"
	"time"

	"expenso/internal/insights"
	"expenso/internal/store"
)

// Clock returns the current instant; tests pin it.
type Clock func() time.Time

// Dashboard bundles the aggregates and texts computed from one snapshot.
type Dashboard struct {
	Summary insights.Summary
	Report  insights.Report
}

// DashboardService derives read-only views from the transaction snapshot.
type DashboardService struct {
	lister store.TransactionLister
	clock  Clock
}

func NewDashboardService(lister store.TransactionLister, clock Clock) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{lister: lister, clock: clock}
}

func (s *DashboardService) Summary(ctx context.Context) (insights.Summary, error) {
	txs, err := s.lister.List(ctx)
	if err != nil {
		return insights.Summary{}, fmt.Errorf("load snapshot: %w", err)
	}
	return insights.Summarize(txs, s.clock()), nil
}

func (s *DashboardService) Insights(ctx context.Context, roasting bool) (insights.Report, error) {
	txs, err := s.lister.List(ctx)
	if err != nil {
		return insights.Report{}, fmt.Errorf("load snapshot: %w", err)
	}
	return insights.Generate(txs, s.clock(), roasting), nil
}

// Dashboard computes the summary and the report against the same snapshot and instant.
func (s *DashboardService) Dashboard(ctx context.Context, roasting bool) (Dashboard, error) {
	txs, err := s.lister.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load snapshot: %w", err)
	}
	now := s.clock()
	return Dashboard{
		Summary: insights.Summarize(txs, now),
		Report:  insights.Generate(txs, now, roasting),
	}, nil
}
