package domain

// Snapshot is a point-in-time analytics view for one tenant.
//
// Every field is recomputed from the usage ledger on each call; there is
// no caching layer. Quota fields combine ledger counts with the plan
// policy table — limits are reported, never enforced as a hard cap.
type Snapshot struct {
	TotalInteractions int64
	ActiveUsers       int64 // distinct end-users over the last 30 days

	FAQCreated int64
	FAQLimit   int

	AIUsed      int64
	AILimit     int   // meaningless when AIUnlimited
	AIRemaining int64 // AILimit - AIUsed; may go negative when over limit
	AIUnlimited bool

	Daily  []DailyCount
	Events []UsageEvent
}
