package domain

// Verdict is the outcome of a single evaluation run. Verdicts are computed
// fresh per call and never stored.
type Verdict string

const (
	VerdictApproved    Verdict = "APPROVED"
	VerdictRejected    Verdict = "REJECTED"
	VerdictUnderReview Verdict = "UNDER_REVIEW"
	VerdictDenied      Verdict = "DENIED"
)

// Application lifecycle statuses. The engine seeds StatusPendingReview at
// intake; every later transition belongs to the reviewer workflow, not to
// this core. Kept as a separate vocabulary from Verdict: "REJECTED" here is
// a stored fact set by a reviewer, while VerdictRejected is the result of
// one evaluation run.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusRejected      = "REJECTED"
	StatusManualReview  = "MANUAL_REVIEW"
)

// ReviewQueueStatuses is the fixed allowlist the manual-review listing is
// scoped to.
var ReviewQueueStatuses = []string{StatusPendingReview, StatusRejected, StatusManualReview}

// EvaluationResult carries the verdict plus the evaluated application's
// amount and term echoed back. The applicant's salary is evaluation input
// and is deliberately absent.
type EvaluationResult struct {
	Verdict    Verdict `json:"evaluation"`
	Amount     float64 `json:"amount"`
	TermMonths int     `json:"term_months"`
}
