package db

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/goaccount/internal/account/entity"
	"github.com/shandysiswandi/goaccount/internal/pkg/goerror"
	"github.com/shandysiswandi/goaccount/internal/pkg/instrument"
)

// Memory is a process-local Store.
type Memory struct {
	tracer

	mu       sync.RWMutex
	accounts map[string]entity.Account
	emails   map[string]string
}

func NewMemory(ins instrument.Instrumentation) *Memory {
	return &Memory{
		tracer:   tracer{ins: ins},
		accounts: make(map[string]entity.Account),
		emails:   make(map[string]string),
	}
}

func (s *Memory) FindByUsername(ctx context.Context, username string) (_ *entity.Account, err error) {
	_, span := s.startSpan(ctx, "FindByUsername")
	defer func() { s.endSpan(span, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[username]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (s *Memory) Insert(ctx context.Context, acc entity.Account) (err error) {
	_, span := s.startSpan(ctx, "Insert")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acc.Username]; ok {
		return goerror.ErrConflict
	}
	if _, ok := s.emails[acc.Email]; ok {
		return goerror.ErrConflict
	}

	s.accounts[acc.Username] = acc
	s.emails[acc.Email] = acc.Username
	return nil
}

func (s *Memory) MarkVerified(ctx context.Context, username string, at time.Time) (_ bool, err error) {
	_, span := s.startSpan(ctx, "MarkVerified")
	defer func() { s.endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok || acc.IsVerified {
		return false, nil
	}

	acc.IsVerified = true
	acc.UpdatedAt = at
	s.accounts[username] = acc
	return true, nil
}
