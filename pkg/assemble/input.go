package assemble

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
	"github.com/matzehuels/relgraph/pkg/graph"
)

// Input bundles the people, business contexts and relationship signals the
// assembler turns into a graph. Every collection is optional.
type Input struct {
	People         []Person            `json:"people"`
	Contexts       []BusinessContext   `json:"contexts,omitempty"`
	Referrals      []ReferralLink      `json:"referrals,omitempty"`
	Recruits       []RecruitLink       `json:"recruits,omitempty"`
	CoAttendance   []CoAttendance      `json:"co_attendance,omitempty"`
	Communications []CommunicationLink `json:"communications,omitempty"`
	CoMentions     []CoMention         `json:"co_mentions,omitempty"`
	GhostMentions  []GhostMention      `json:"ghost_mentions,omitempty"`
	Family         []FamilyLink        `json:"family,omitempty"`
	Roles          []RoleLink          `json:"roles,omitempty"`
}

// Person is a known contact.
type Person struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Roles      []string     `json:"roles,omitempty"`
	Stage      string       `json:"stage,omitempty"`
	Health     graph.Health `json:"health,omitempty"`
	Production float64      `json:"production,omitempty"`
	TopOutcome string       `json:"top_outcome,omitempty"`
	PhotoRef   string       `json:"photo_ref,omitempty"`

	// Position and Pinned let callers carry a user-dragged node through a
	// rebuild.
	Position *graph.Point `json:"position,omitempty"`
	Pinned   bool         `json:"pinned,omitempty"`
}

// BusinessContext is a shared context such as a brokerage, team or deal.
// Only contexts whose Category is "Business" produce edges; every context
// with known participants becomes a layout cluster.
type BusinessContext struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Type           string   `json:"type"`
	ParticipantIDs []string `json:"participant_ids"`
}

// ReferralLink records that ReferrerID referred ReferredID.
type ReferralLink struct {
	ReferrerID string `json:"referrer_id"`
	ReferredID string `json:"referred_id"`
}

// RecruitLink records recruiting lineage at a named stage.
type RecruitLink struct {
	RecruiterID string `json:"recruiter_id"`
	RecruitID   string `json:"recruit_id"`
	Stage       string `json:"stage,omitempty"`
}

// CoAttendance counts meetings two people attended together.
type CoAttendance struct {
	PersonA      string `json:"person_a"`
	PersonB      string `json:"person_b"`
	MeetingCount int    `json:"meeting_count"`
}

// CommunicationLink counts communication evidence between two people.
// Direction is relative to PersonA.
type CommunicationLink struct {
	PersonA       string          `json:"person_a"`
	PersonB       string          `json:"person_b"`
	EvidenceCount int             `json:"evidence_count"`
	Direction     graph.Direction `json:"direction,omitempty"`
}

// CoMention counts notes that mention both people.
type CoMention struct {
	PersonA        string `json:"person_a"`
	PersonB        string `json:"person_b"`
	CoMentionCount int    `json:"co_mention_count"`
}

// GhostMention is a name found in notes that matches no known person.
type GhostMention struct {
	Name           string   `json:"name"`
	MentionedByIDs []string `json:"mentioned_by_ids"`
}

// FamilyLink is a deduced family relation between two people.
type FamilyLink struct {
	DeductionID string `json:"deduction_id"`
	PersonA     string `json:"person_a"`
	PersonB     string `json:"person_b"`
	Relation    string `json:"relation,omitempty"`
	Confirmed   bool   `json:"confirmed,omitempty"`
}

// RoleLink is a role the user (SelfID) holds toward a contact.
type RoleLink struct {
	SelfID    string       `json:"self_id"`
	ContactID string       `json:"contact_id"`
	Role      string       `json:"role"`
	Health    graph.Health `json:"health,omitempty"`
}

// ReadInputFile reads a signal bundle from a JSON file.
func ReadInputFile(path string) (Input, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Input{}, rerrors.Wrap(rerrors.ErrCodeFileNotFound, err, "signals file %s", path)
	}
	if err != nil {
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInput(f)
}

// ReadInput decodes a signal bundle from JSON.
func ReadInput(r io.Reader) (Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Input{}, rerrors.Wrap(rerrors.ErrCodeInvalidInput, err, "decode signals")
	}
	return in, nil
}
