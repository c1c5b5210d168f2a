package auth

import (
	"fmt"

	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

// Action names an operation guarded by the policy
type Action string

const (
	ActionIssueCreate  Action = "issue.create"
	ActionIssueAssign  Action = "issue.assign"
	ActionIssueResolve Action = "issue.resolve"
	ActionIssueView    Action = "issue.view"
	ActionStatsView    Action = "stats.view"
	ActionLecturerList Action = "lecturer.list"
)

// Predicate is an extra condition on top of the role check. issue may be nil
// for actions that are not about a single issue.
type Predicate func(actor *models.User, issue *models.Issue) bool

// Rule grants an action to a set of roles, each optionally gated by a predicate
type Rule struct {
	Roles  map[models.RoleType]Predicate
	Denied string
}

func always(*models.User, *models.Issue) bool { return true }

func isOwner(actor *models.User, issue *models.Issue) bool {
	return issue != nil && issue.SubmittedBy == actor.ID
}

func isAssignee(actor *models.User, issue *models.Issue) bool {
	return issue != nil && issue.IsAssignedTo(actor.ID)
}

// DefaultRules is the AITS permission table
var DefaultRules = map[Action]Rule{
	ActionIssueCreate: {
		Roles:  map[models.RoleType]Predicate{models.RoleStudent: always},
		Denied: "only students can submit issues",
	},
	ActionIssueAssign: {
		Roles:  map[models.RoleType]Predicate{models.RoleRegistrar: always},
		Denied: "only registrars can assign issues to lecturers",
	},
	ActionIssueResolve: {
		Roles:  map[models.RoleType]Predicate{models.RoleLecturer: isAssignee},
		Denied: "only the assigned lecturer can resolve this issue",
	},
	ActionIssueView: {
		Roles: map[models.RoleType]Predicate{
			models.RoleStudent:   isOwner,
			models.RoleLecturer:  isAssignee,
			models.RoleRegistrar: always,
		},
		Denied: "you cannot view this issue",
	},
	ActionStatsView: {
		Roles: map[models.RoleType]Predicate{
			models.RoleStudent:   always,
			models.RoleLecturer:  always,
			models.RoleRegistrar: always,
		},
		Denied: "you cannot view issue statistics",
	},
	ActionLecturerList: {
		Roles:  map[models.RoleType]Predicate{models.RoleRegistrar: always},
		Denied: "only registrars can list lecturers",
	},
}

// Policy evaluates actions against a rule table. It never touches storage.
type Policy struct {
	rules map[Action]Rule
}

// NewPolicy returns a policy backed by DefaultRules
func NewPolicy() *Policy {
	return NewPolicyWithRules(DefaultRules)
}

// NewPolicyWithRules returns a policy backed by rules
func NewPolicyWithRules(rules map[Action]Rule) *Policy {
	return &Policy{rules: rules}
}

// Authorize returns nil if actor may perform action on issue, otherwise an
// error wrapping apperrors.ErrPermissionDenied.
func (p *Policy) Authorize(action Action, actor *models.User, issue *models.Issue) error {
	rule, ok := p.rules[action]
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("unknown action %q", action))
	}
	if actor == nil {
		return apperrors.NewForbiddenError(rule.Denied)
	}

	check, ok := rule.Roles[actor.RoleType]
	if !ok || !check(actor, issue) {
		return apperrors.NewForbiddenError(rule.Denied)
	}

	return nil
}

// HasRole reports whether actor's role is granted action at all, ignoring predicates
func (p *Policy) HasRole(action Action, actor *models.User) bool {
	if actor == nil {
		return false
	}
	_, ok := p.rules[action].Roles[actor.RoleType]
	return ok
}

// IssueScope returns the filter restricting listings and stats to what actor may see
func IssueScope(actor *models.User) (models.IssueFilter, error) {
	var filter models.IssueFilter
	if actor == nil {
		return filter, apperrors.ErrPermissionDenied
	}

	switch actor.RoleType {
	case models.RoleRegistrar:
	case models.RoleLecturer:
		id := actor.ID
		filter.AssignedTo = &id
	case models.RoleStudent:
		id := actor.ID
		filter.SubmittedBy = &id
	default:
		return filter, apperrors.NewForbiddenError(fmt.Sprintf("unknown role %q", actor.RoleType))
	}

	return filter, nil
}
