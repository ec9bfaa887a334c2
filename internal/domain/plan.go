// Package domain contains core business types and interfaces.
//
// This file defines the subscription plan policy: a fixed table mapping
// each plan to its FAQ cap and monthly AI-request cap. The lookup is pure
// and total; unknown plan names silently fall back to the demo limits.
package domain

import "strings"

// Plan is the subscription tier of a tenant.
type Plan string

const (
	PlanDemo     Plan = "demo"
	PlanOnetime  Plan = "onetime"
	PlanBasic    Plan = "basic"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

// DefaultPlan is assigned to tenants created on first login.
const DefaultPlan = PlanDemo

// PlanLimits defines the usage caps for a subscription plan.
type PlanLimits struct {
	FAQLimit    int  // Maximum stored FAQ entries
	MonthlyAI   int  // Maximum AI requests per calendar month
	UnlimitedAI bool // Premium: no monthly AI cap
}

// planLimits maps each plan to its caps.
var planLimits = map[Plan]PlanLimits{
	PlanDemo:     {FAQLimit: 5, MonthlyAI: 100},
	PlanOnetime:  {FAQLimit: 20, MonthlyAI: 500},
	PlanBasic:    {FAQLimit: 50, MonthlyAI: 1000},
	PlanStandard: {FAQLimit: 100, MonthlyAI: 5000},
	PlanPremium:  {FAQLimit: 200, UnlimitedAI: true},
}

// LimitsFor returns the limits for a plan, defaulting to demo limits for
// unknown plan names. Plan names are matched case-insensitively.
func LimitsFor(plan Plan) PlanLimits {
	if limits, ok := planLimits[Plan(strings.ToLower(string(plan)))]; ok {
		return limits
	}
	return planLimits[PlanDemo]
}
