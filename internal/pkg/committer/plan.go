// Package committer collects Spanner mutations from multiple sources into a
// single plan and applies the plan in one transaction.
//
// Usecases and consumers follow the same flow: load the aggregate, call domain
// methods, have repositories return mutations without applying them, append the
// outbox rows for the recorded domain events, then apply everything atomically.
// This is what makes "commit state" and "emit event" inseparable: the business
// row and its outbox row are part of the same commit or neither exists.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan accumulates mutations destined for one atomic commit.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates an empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{mutations: make([]*spanner.Mutation, 0, 4)}
}

// Add appends a mutation. Nil mutations are ignored so repositories can return
// nil for no-op updates.
func (p *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		p.mutations = append(p.mutations, mut)
	}
}

// AddAll appends every non-nil mutation in muts.
func (p *CommitPlan) AddAll(muts []*spanner.Mutation) {
	for _, mut := range muts {
		p.Add(mut)
	}
}

// Mutations returns the collected mutations.
func (p *CommitPlan) Mutations() []*spanner.Mutation {
	return p.mutations
}

// IsEmpty reports whether the plan holds no mutations.
func (p *CommitPlan) IsEmpty() bool {
	return len(p.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (p *CommitPlan) Count() int {
	return len(p.mutations)
}

// Applier applies a CommitPlan atomically. Usecases depend on this contract so
// tests can observe plans without a database.
type Applier interface {
	Apply(ctx context.Context, plan *CommitPlan) error
}

// Committer executes CommitPlans against Spanner.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a Committer bound to client.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply commits the plan in a single transaction. An empty plan is a no-op.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("apply commit plan: %w", err)
	}

	return nil
}

// ReadWrite runs fn inside a read-write transaction, for flows that must read
// before buffering writes.
func (c *Committer) ReadWrite(ctx context.Context, fn func(context.Context, *spanner.ReadWriteTransaction) error) error {
	if _, err := c.client.ReadWriteTransaction(ctx, fn); err != nil {
		return fmt.Errorf("read-write transaction: %w", err)
	}

	return nil
}
