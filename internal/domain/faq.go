package domain

// FAQ is a single question/answer entry owned by one tenant.
//
// (TenantID, Question) is unique: saving an existing question overwrites
// the answer and popular flag rather than creating a second row.
type FAQ struct {
	ID       int64
	TenantID int64
	Question string
	Answer   string
	Popular  bool
}

// FAQUpsertParams contains the parameters for creating or updating an FAQ.
type FAQUpsertParams struct {
	TenantID int64
	Question string
	Answer   string
	Popular  bool
}
