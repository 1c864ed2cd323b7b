package auth

import "sort"

type stage int

const (
	stageActive stage = iota + 1
	stageRole
)

// Guard is an authorization check applied to an authenticated request.
// Guards only accept an AuthContext, so they cannot run before the Authenticator.
type Guard interface {
	Check(ac *AuthContext) (*AuthContext, error)
	stage() stage
}

type activeGuard struct{}

// RequireActive rejects identities whose account is inactive.
func RequireActive() Guard { return activeGuard{} }

func (activeGuard) Check(ac *AuthContext) (*AuthContext, error) {
	if !ac.identity.IsActive {
		return nil, ErrInactiveAccount
	}
	return ac, nil
}

func (activeGuard) stage() stage { return stageActive }

type roleGuard struct {
	seller bool
}

// RequireRole rejects identities whose seller flag differs from seller.
func RequireRole(seller bool) Guard { return roleGuard{seller: seller} }

// RequireSeller admits only artist accounts.
func RequireSeller() Guard { return RequireRole(true) }

// RequireBuyer admits only non-artist accounts.
func RequireBuyer() Guard { return RequireRole(false) }

func (g roleGuard) Check(ac *AuthContext) (*AuthContext, error) {
	if ac.identity.IsArtist != g.seller {
		return nil, &roleError{wantSeller: g.seller}
	}
	return ac, nil
}

func (roleGuard) stage() stage { return stageRole }

// Chain is an ordered guard sequence. The active check always precedes role checks.
type Chain struct {
	guards []Guard
}

// NewChain orders guards by stage, keeping the caller's order within a stage.
func NewChain(guards ...Guard) Chain {
	ordered := make([]Guard, 0, len(guards))
	for _, g := range guards {
		if g != nil {
			ordered = append(ordered, g)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].stage() < ordered[j].stage()
	})
	return Chain{guards: ordered}
}

// Check runs every guard and stops at the first rejection.
func (c Chain) Check(ac *AuthContext) (*AuthContext, error) {
	var err error
	for _, g := range c.guards {
		if ac, err = g.Check(ac); err != nil {
			return nil, err
		}
	}
	return ac, nil
}
