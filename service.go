package assistant

import (
	"context"
	"log/slog"
	"strings"
)

// Service is the query resolution entry point consumed by the HTTP handler.
// Each call is one independent request-response cycle; the service holds no
// mutable state between turns.
type Service struct {
	config Config
	search *SearchExecutor
	logger *slog.Logger
}

// New creates a service with the given configuration.
func New(cfg Config) (*Service, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Service{
		config: cfg,
		search: NewSearchExecutor(cfg),
		logger: cfg.Logger,
	}, nil
}

// Resolve processes one conversational turn: follow-up shortcut, filter
// build, layered search, reply composition. Collaborator failures are
// absorbed below this level and surface as a normally composed reply; the
// only errors returned are malformed-input rejections.
func (s *Service) Resolve(ctx context.Context, turn ConversationTurn) (Reply, error) {
	message := strings.TrimSpace(turn.Message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	if reply := ResolveFollowUp(message, turn.PriorResults); reply != nil {
		s.logger.Debug("answered from prior context",
			slog.String("tenant_id", turn.TenantID),
			slog.Int("prior_rows", len(turn.PriorResults.Rows)),
		)
		return *reply, nil
	}

	filter := s.buildFilter(message, turn.CallerFilters)

	rs, failure := s.search.Search(ctx, turn.TenantID, message, filter)
	text := ComposeReply(message, rs, filter, failure != "")

	s.logger.Debug("turn resolved",
		slog.String("tenant_id", turn.TenantID),
		slog.String("search_type", string(rs.SearchType)),
		slog.Int("rows", len(rs.Rows)),
		slog.Bool("search_failed", failure != ""),
	)

	return Reply{Text: text, ResultSet: rs}, nil
}

// buildFilter resolves the message plus caller-supplied filters into the
// immutable per-turn filter.
func (s *Service) buildFilter(message string, caller *PartialFilter) ResolvedFilter {
	var f ResolvedFilter
	if caller != nil {
		f.DateStart = caller.DateStart
		f.DateEnd = caller.DateEnd
		f.VendorTerm = caller.Vendor
		f.MinAmount = caller.MinAmount
	}

	// A parsed date phrase always overrides caller-supplied bounds, even an
	// incidental date word in free text. Known sharp edge; keep the ordering
	// until the UI sends explicit precedence.
	if dr := ResolveDateRange(message, s.config.Clock()); dr != nil {
		start, end := dr.Start, dr.End
		f.DateStart = &start
		f.DateEnd = &end
		f.DateDescription = dr.Description
	}

	if vendor := ExtractVendor(message, s.config.KnownVendors); vendor != "" {
		f.VendorTerm = vendor
	}
	if amount, ok := ExtractMinAmount(message); ok {
		f.MinAmount = &amount
	}
	return f
}
