package ptable

import (
	"fmt"

	"github.com/arineng/foreman-ptable/internal/core"
	"github.com/arineng/foreman-ptable/internal/foreman"
)

// Reconciler converges one partition table definition against the Foreman
// inventory. Each call is stateless and idempotent: a second run with the
// same definition reports changed=false.
type Reconciler struct {
	client foreman.Client
}

func NewReconciler(client foreman.Client) *Reconciler {
	return &Reconciler{client: client}
}

// Ensure looks up the partition table by name and creates, updates or
// deletes it so the live state matches the definition. It returns whether
// a mutation happened and the final record as Foreman reported it (the
// stored record for no-ops, nil when nothing exists).
func (r *Reconciler) Ensure(ctx *core.RunContext, def *Definition) (bool, *foreman.PartitionTable, error) {
	res, pt := r.Apply(ctx, def)
	if res.Failed {
		return false, nil, res.Error
	}
	return res.Changed, pt, nil
}

// Apply is Ensure with reporting: the result carries the decided action
// and a message suitable for the CLI.
//
// In dry-run mode the decision tree still runs but no mutating call is
// issued; the returned record is the pre-existing one, if any.
func (r *Reconciler) Apply(ctx *core.RunContext, def *Definition) (core.Result, *foreman.PartitionTable) {
	if err := def.Validate(); err != nil {
		return core.Failure(err, "invalid definition"), nil
	}

	layout, err := def.ResolveLayout(ctx)
	if err != nil {
		return core.Failure(err, "could not resolve layout"), nil
	}

	locationIDs, err := r.resolveLocations(ctx, def.Locations)
	if err != nil {
		return core.Failure(err, "could not resolve locations"), nil
	}

	existing, err := r.client.SearchPartitionTable(ctx, def.Name)
	if err != nil {
		err = fmt.Errorf("could not get partition table %q: %w", def.Name, err)
		return core.Failure(err, "search failed"), nil
	}

	data := foreman.PartitionTableInput{
		Name:        def.Name,
		Layout:      layout,
		OSFamily:    def.OSFamily,
		LocationIDs: locationIDs,
	}

	switch {
	case existing == nil && def.DesiredState() == StatePresent:
		if ctx.DryRun {
			return core.SuccessChange("created", fmt.Sprintf("Would create partition table %q", def.Name)), nil
		}
		created, err := r.client.CreatePartitionTable(ctx, data)
		if err != nil {
			err = fmt.Errorf("could not create partition table %q: %w", def.Name, err)
			return core.Failure(err, "create failed"), nil
		}
		return core.SuccessChange("created", fmt.Sprintf("Created partition table %q", def.Name)), created

	case existing != nil && def.DesiredState() == StateAbsent:
		if ctx.DryRun {
			return core.SuccessChange("deleted", fmt.Sprintf("Would delete partition table %q", def.Name)), existing
		}
		deleted, err := r.client.DeletePartitionTable(ctx, existing.ID)
		if err != nil {
			err = fmt.Errorf("could not delete partition table %q: %w", def.Name, err)
			return core.Failure(err, "delete failed"), nil
		}
		return core.SuccessChange("deleted", fmt.Sprintf("Deleted partition table %q", def.Name)), deleted

	case existing != nil && def.DesiredState() == StatePresent:
		current, err := r.client.GetPartitionTable(ctx, existing.ID)
		if err != nil {
			err = fmt.Errorf("could not get partition table %q to update: %w", def.Name, err)
			return core.Failure(err, "lookup failed"), nil
		}
		// Compare against the resolved layout; that is the equality that
		// makes a re-run a no-op.
		if current.Layout == layout {
			return core.SuccessNoChange(fmt.Sprintf("Partition table %q is up to date", def.Name)), current
		}
		if ctx.DryRun {
			return core.SuccessChange("updated", fmt.Sprintf("Would update partition table %q", def.Name)), current
		}
		updated, err := r.client.UpdatePartitionTable(ctx, current.ID, data)
		if err != nil {
			err = fmt.Errorf("could not update partition table %q: %w", def.Name, err)
			return core.Failure(err, "update failed"), nil
		}
		return core.SuccessChange("updated", fmt.Sprintf("Updated partition table %q", def.Name)), updated

	default: // absent and no match: nothing to do
		return core.SuccessNoChange(fmt.Sprintf("Partition table %q already absent", def.Name)), nil
	}
}

// PlanAction is the preview of what Ensure would do for a definition.
type PlanAction struct {
	Action   string // create, update, delete or noop
	Existing *foreman.PartitionTable
	Diff     string
}

// Plan runs the same lookups and decision tree as Ensure without issuing
// any mutating call, and renders a layout diff for pending changes.
func (r *Reconciler) Plan(ctx *core.RunContext, def *Definition) (*PlanAction, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	layout, err := def.ResolveLayout(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := r.resolveLocations(ctx, def.Locations); err != nil {
		return nil, err
	}

	existing, err := r.client.SearchPartitionTable(ctx, def.Name)
	if err != nil {
		return nil, fmt.Errorf("could not get partition table %q: %w", def.Name, err)
	}

	switch {
	case existing == nil && def.DesiredState() == StatePresent:
		return &PlanAction{
			Action: "create",
			Diff:   core.GenerateDiff("", layout),
		}, nil

	case existing != nil && def.DesiredState() == StateAbsent:
		return &PlanAction{Action: "delete", Existing: existing}, nil

	case existing != nil && def.DesiredState() == StatePresent:
		current, err := r.client.GetPartitionTable(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get partition table %q to update: %w", def.Name, err)
		}
		if current.Layout == layout {
			return &PlanAction{Action: "noop", Existing: current}, nil
		}
		return &PlanAction{
			Action:   "update",
			Existing: current,
			Diff:     core.GenerateDiff(current.Layout, layout),
		}, nil

	default:
		return &PlanAction{Action: "noop"}, nil
	}
}

// resolveLocations maps each location name to its id, preserving order.
// A miss is fatal and names the offending location.
func (r *Reconciler) resolveLocations(ctx *core.RunContext, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(names))
	for _, name := range names {
		location, err := r.client.SearchLocation(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("could not get locations: %w", err)
		}
		if location == nil {
			return nil, fmt.Errorf("could not find location %q", name)
		}
		ids = append(ids, location.ID)
	}
	return ids, nil
}
