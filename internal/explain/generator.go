// Package explain turns fired scoring rules into short justifications and
// fetches detailed explanations for ranked products.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/metrics"
	"github.com/hyperjump/hairmatch/internal/models"
)

const (
	// DefaultMaxClauses is the number of clauses joined into a reasoning string.
	DefaultMaxClauses = 3
	// DefaultTimeout bounds one detailed explanation call.
	DefaultTimeout = 30 * time.Second

	// GenericReasoning is used when no rule produced a clause.
	GenericReasoning = "Good overall match for your hair profile"
)

// DetailedExplainer writes a long-form match explanation and care routine.
type DetailedExplainer interface {
	Explain(ctx context.Context, profile *models.UserProfile, product *models.Product) (models.Detail, error)
}

// Generator builds reasoning strings and detailed explanations.
type Generator struct {
	clauses    map[string]ClauseFunc
	maxClauses int
	explainer  DetailedExplainer
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithExplainer enables detailed explanations from an external explainer.
func WithExplainer(e DetailedExplainer) Option {
	return func(g *Generator) {
		g.explainer = e
	}
}

// WithTimeout bounds each explainer call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithMaxClauses sets how many clauses a reasoning string keeps.
func WithMaxClauses(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxClauses = n
		}
	}
}

// WithClause registers or replaces the template for a rule.
func WithClause(rule string, fn ClauseFunc) Option {
	return func(g *Generator) {
		g.clauses[rule] = fn
	}
}

// NewGenerator creates a Generator with the default clause templates.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clauses:    DefaultClauses(),
		maxClauses: DefaultMaxClauses,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Clauses renders one clause per fired rule that has a template, in rule order.
func (g *Generator) Clauses(profile *models.UserProfile, sp *models.ScoredProduct) []string {
	var out []string
	for _, rule := range sp.Rules {
		fn, ok := g.clauses[rule.Name]
		if !ok {
			continue
		}
		if clause := fn(profile, &sp.Product); clause != "" {
			out = append(out, clause)
		}
	}
	return out
}

// Reasoning joins the first clauses with ". ". No clauses yields GenericReasoning.
func (g *Generator) Reasoning(clauses []string) string {
	if len(clauses) == 0 {
		return GenericReasoning
	}
	if len(clauses) > g.maxClauses {
		clauses = clauses[:g.maxClauses]
	}
	return strings.Join(clauses, ". ")
}

// Explain builds the reasoning string for one scored product.
func (g *Generator) Explain(profile *models.UserProfile, sp *models.ScoredProduct) string {
	return g.Reasoning(g.Clauses(profile, sp))
}

// Enabled reports whether detailed explanations come from an external explainer.
func (g *Generator) Enabled() bool {
	return g.explainer != nil
}

// Detail returns the detailed explanation for one product. Without an
// explainer, or when the explainer fails, the templated fallback is returned.
func (g *Generator) Detail(ctx context.Context, profile *models.UserProfile, product *models.Product) models.Detail {
	if g.explainer == nil {
		return FallbackDetail(profile, product)
	}
	detail, err := g.explain(ctx, profile, product)
	if err != nil {
		g.logger.Warn("Detailed explanation failed, using template",
			zap.String("product", product.Name), zap.Error(err))
		return FallbackDetail(profile, product)
	}
	return detail
}

func (g *Generator) explain(ctx context.Context, profile *models.UserProfile, product *models.Product) (detail models.Detail, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("explainer panicked: %v", r)
		}
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			result = metrics.ResultTimeout
		case err != nil:
			result = metrics.ResultError
		}
		metrics.RecordExternalCall(metrics.CapabilityExplanation, result, time.Since(start))
	}()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	detail, err = g.explainer.Explain(callCtx, profile, product)
	if err != nil {
		return models.Detail{}, err
	}
	if strings.TrimSpace(detail.Explanation) == "" {
		return models.Detail{}, errors.New("empty explanation")
	}
	if strings.TrimSpace(detail.Routine) == "" {
		detail.Routine = DefaultRoutine
	}
	return detail, nil
}

// DetailAll fills in the detail of every ranked product concurrently. Results
// land at their ranked positions.
func (g *Generator) DetailAll(ctx context.Context, profile *models.UserProfile, ranked []models.ScoredProduct) {
	var wg sync.WaitGroup
	for i := range ranked {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ranked[i].Detail = g.Detail(ctx, profile, &ranked[i].Product)
		}(i)
	}
	wg.Wait()
}

// DefaultRoutine is used when an explanation arrives without a routine.
const DefaultRoutine = "Please consult the product instructions for specific usage guidelines."

// FallbackDetail is the templated explanation used when no explainer answer is available.
func FallbackDetail(profile *models.UserProfile, product *models.Product) models.Detail {
	return models.Detail{
		Explanation: fmt.Sprintf(
			"This product matches your hair profile based on your %s hair feel, %s scalp, and goal of %s.",
			feelWord(profile), scalpWord(profile), goalWord(profile)),
		Routine: fmt.Sprintf(
			"Use %s shampoo and conditioner 2-3 times weekly. Apply hair mask once weekly for deep treatment. Follow product instructions for best results.",
			product.Name),
	}
}
