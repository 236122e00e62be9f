package services

import (
	"fmt"

	"lendcore/internal/config"
	"lendcore/internal/core/domain"
)

// DecisionPolicy turns an applicant's base salary and a requested
// amount/term into a verdict. Implementations are pure: no I/O, no state.
type DecisionPolicy interface {
	Name() string
	Decide(salary, amount float64, termMonths int) domain.Verdict
}

// NewDecisionPolicy resolves a policy by its configured name.
func NewDecisionPolicy(cfg config.UnderwritingConfig) (DecisionPolicy, error) {
	switch cfg.Policy {
	case config.PolicyTiered:
		return &tieredPolicy{cfg: cfg}, nil
	case config.PolicyLegacy:
		return &legacyPolicy{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown underwriting policy: %s", cfg.Policy)
	}
}

// tieredPolicy is the canonical five-tier policy. Rules are ordered and the
// first match wins; in particular the insufficiency check (salary below the
// prorated monthly obligation) outranks the salary band that would
// otherwise send the application to review.
type tieredPolicy struct {
	cfg config.UnderwritingConfig
}

func (p *tieredPolicy) Name() string { return config.PolicyTiered }

func (p *tieredPolicy) Decide(salary, amount float64, termMonths int) domain.Verdict {
	switch {
	case salary >= p.cfg.AutoApproveSalary:
		return domain.VerdictApproved
	case amount <= salary*p.cfg.AffordabilityRatio:
		return domain.VerdictApproved
	case salary < amount/p.cfg.ProrationDivisor:
		// The divisor is a fixed proration constant, not the requested term.
		return domain.VerdictRejected
	case salary >= p.cfg.ReviewSalary:
		return domain.VerdictUnderReview
	default:
		return domain.VerdictDenied
	}
}

// legacyPolicy is the historical three-tier salary-band policy, kept behind
// configuration for installations that still depend on it. It has no
// affordability or insufficiency overrides.
type legacyPolicy struct {
	cfg config.UnderwritingConfig
}

func (p *legacyPolicy) Name() string { return config.PolicyLegacy }

func (p *legacyPolicy) Decide(salary, amount float64, termMonths int) domain.Verdict {
	switch {
	case salary >= p.cfg.AutoApproveSalary:
		return domain.VerdictApproved
	case salary >= p.cfg.ReviewSalary:
		return domain.VerdictUnderReview
	default:
		return domain.VerdictDenied
	}
}
