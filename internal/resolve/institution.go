package resolve

import (
	"strings"

	"github.com/cleared-dev/elmledger/internal/model"
)

// DefaultInstitution is the bank holding the LLC checking and savings
// accounts.
const DefaultInstitution = "TD Bank"

// InstitutionPass assigns otherwise unresolved records from a known
// institution to the LLC checking or savings slot. It runs over the whole
// batch so that each of the two slots is claimed at most once.
type InstitutionPass struct {
	key string
}

func NewInstitutionPass(institution string) *InstitutionPass {
	return &InstitutionPass{key: compact(institution)}
}

func (p *InstitutionPass) Name() string { return "institution" }

// Match reports the slot acct would claim, ignoring other records.
func (p *InstitutionPass) Match(acct model.ExternalAccount) (model.Slot, bool) {
	if p.key == "" || !p.fromInstitution(acct) {
		return "", false
	}
	return accountSemantics(acct)
}

func (p *InstitutionPass) fromInstitution(acct model.ExternalAccount) bool {
	for _, hint := range acct.Institution() {
		if strings.Contains(compact(hint), p.key) {
			return true
		}
	}
	for _, id := range acct.IdentityCandidates() {
		if strings.Contains(compact(id), p.key) {
			return true
		}
	}
	return false
}

// accountSemantics looks for checking or savings in the classifier fields
// first and the descriptive names second.
func accountSemantics(acct model.ExternalAccount) (model.Slot, bool) {
	for _, group := range [][]string{acct.Classifiers(), acct.Descriptors()} {
		for _, v := range group {
			key := Normalize(v)
			switch {
			case strings.Contains(key, "checking"):
				return model.SlotLLCBank, true
			case strings.Contains(key, "savings"):
				return model.SlotLLCSavings, true
			}
		}
	}
	return "", false
}
