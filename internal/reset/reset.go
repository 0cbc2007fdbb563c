// Package reset drives the store pair into named, well-known states by
// executing ordered action sequences. Actions run strictly in order and the
// first failure aborts the remainder; completed actions are never rolled
// back, so a failed reset can leave the environment between states. The
// remedy is running another reset, not compensation logic here.
package reset

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/inkatlas/datakit/internal/blob"
	"github.com/inkatlas/datakit/internal/dataset"
	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
	"github.com/inkatlas/datakit/internal/id"
	"github.com/inkatlas/datakit/internal/scenario"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/seeder"
	"github.com/inkatlas/datakit/internal/snapshot"
	"github.com/inkatlas/datakit/internal/store"
)

// Action names understood by the orchestrator. Parameterized actions carry
// their argument after a colon, e.g. "seed-scenario:minimal".
const (
	ActionClearPrimary   = "clear-primary"
	ActionClearIndex     = "clear-index"
	ActionClearBlobStore = "clear-blob-store"
	ActionSeedFull       = "seed-full"
	ActionSeedScenario   = "seed-scenario"
	ActionDuplicateData  = "duplicate-data"
	ActionRestore        = "restore-snapshot"
	ActionRebuildIndex   = "rebuild-index"
)

// State is a named reset target: an ordered action sequence.
type State struct {
	Name        string
	Description string
	Actions     []string
}

// ActionResult records one executed action.
type ActionResult struct {
	Action  string        `json:"action"`
	Elapsed time.Duration `json:"elapsed"`
	Err     string        `json:"error,omitempty"`
}

// Result is the outcome of one reset run. Completed holds every action that
// ran, in order; if Aborted is set the last entry is the one that failed and
// nothing after it was attempted.
type Result struct {
	State     string         `json:"state"`
	Completed []ActionResult `json:"completed"`
	Aborted   bool           `json:"aborted,omitempty"`
	Elapsed   time.Duration  `json:"elapsed"`
}

// Orchestrator executes reset states against the store pair.
type Orchestrator struct {
	store     *store.Store
	index     *search.Index
	blobs     blob.Store
	snapshots *snapshot.Manager
	writer    *seeder.Writer
	dataset   *dataset.Dataset
	scenarios *scenario.Registry
	pageSize  int
	logger    *slog.Logger

	states map[string]State
	order  []string
}

// New builds an orchestrator with the built-in states registered.
func New(
	s *store.Store,
	idx *search.Index,
	blobs blob.Store,
	snapshots *snapshot.Manager,
	writer *seeder.Writer,
	ds *dataset.Dataset,
	scenarios *scenario.Registry,
	pageSize int,
	logger *slog.Logger,
) *Orchestrator {
	o := &Orchestrator{
		store:     s,
		index:     idx,
		blobs:     blobs,
		snapshots: snapshots,
		writer:    writer,
		dataset:   ds,
		scenarios: scenarios,
		pageSize:  pageSize,
		logger:    logger.With("component", "reset"),
		states:    make(map[string]State),
	}
	for _, st := range builtinStates() {
		o.RegisterState(st)
	}
	return o
}

func builtinStates() []State {
	return []State{
		{
			Name:        "clean",
			Description: "both stores and the snapshot store empty",
			Actions:     []string{ActionClearPrimary, ActionClearIndex, ActionClearBlobStore},
		},
		{
			Name:        "seeded",
			Description: "full canonical dataset in both stores",
			Actions:     []string{ActionClearPrimary, ActionClearIndex, ActionSeedFull},
		},
		{
			Name:        "minimal",
			Description: "the minimal scenario only",
			Actions:     []string{ActionClearPrimary, ActionClearIndex, ActionSeedScenario + ":minimal"},
		},
		{
			Name:        "load-test",
			Description: "full dataset duplicated fourfold",
			Actions:     []string{ActionClearPrimary, ActionClearIndex, ActionSeedFull, ActionDuplicateData + ":3"},
		},
		{
			Name:        "restored",
			Description: "latest snapshot restored and the index rebuilt from it",
			Actions:     []string{ActionRestore + ":", ActionRebuildIndex},
		},
	}
}

// RegisterState adds or replaces a named state.
func (o *Orchestrator) RegisterState(st State) {
	if _, exists := o.states[st.Name]; !exists {
		o.order = append(o.order, st.Name)
	}
	o.states[st.Name] = st
}

// States lists registered states in registration order.
func (o *Orchestrator) States() []State {
	out := make([]State, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.states[name])
	}
	return out
}

// Reset drives the environment into the named state. The first failing
// action aborts the run; earlier actions stay applied.
func (o *Orchestrator) Reset(ctx context.Context, stateName string) (*Result, error) {
	st, ok := o.states[stateName]
	if !ok {
		return nil, domainerrors.UnknownResetState(stateName)
	}

	start := time.Now()
	result := &Result{State: st.Name}
	o.logger.Info("reset starting", "state", st.Name, "actions", len(st.Actions))

	for _, action := range st.Actions {
		actionStart := time.Now()
		err := o.run(ctx, action)
		ar := ActionResult{Action: action, Elapsed: time.Since(actionStart)}
		if err != nil {
			ar.Err = err.Error()
			result.Completed = append(result.Completed, ar)
			result.Aborted = true
			result.Elapsed = time.Since(start)
			o.logger.Error("reset aborted", "state", st.Name, "action", action, "error", err)
			return result, domainerrors.Wrapf(err, domainerrors.CodeInternal,
				"reset %s: action %s failed", st.Name, action)
		}
		result.Completed = append(result.Completed, ar)
		o.logger.Debug("action complete", "action", action, "elapsed", ar.Elapsed)
	}

	result.Elapsed = time.Since(start)
	o.logger.Info("reset complete", "state", st.Name, "elapsed", result.Elapsed)
	return result, nil
}

// run dispatches one action string.
func (o *Orchestrator) run(ctx context.Context, action string) error {
	name, arg, _ := strings.Cut(action, ":")
	switch name {
	case ActionClearPrimary:
		return o.clearPrimary(ctx)
	case ActionClearIndex:
		return o.index.Rebuild()
	case ActionClearBlobStore:
		return o.clearBlobStore(ctx)
	case ActionSeedFull:
		return o.seedScenario(ctx, "full")
	case ActionSeedScenario:
		if arg == "" {
			return fmt.Errorf("seed-scenario requires a scenario name")
		}
		return o.seedScenario(ctx, arg)
	case ActionDuplicateData:
		factor, err := strconv.Atoi(arg)
		if err != nil || factor < 1 {
			return fmt.Errorf("duplicate-data requires a positive factor, got %q", arg)
		}
		return o.duplicateData(ctx, factor)
	case ActionRestore:
		_, err := o.snapshots.Restore(ctx, arg)
		return err
	case ActionRebuildIndex:
		return o.rebuildIndex(ctx)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (o *Orchestrator) clearPrimary(ctx context.Context) error {
	return o.store.DropAll(ctx)
}

func (o *Orchestrator) clearBlobStore(ctx context.Context) error {
	infos, err := o.blobs.List(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if err := o.blobs.Delete(ctx, info.Key); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) seedScenario(ctx context.Context, name string) error {
	sc, err := o.scenarios.Get(name)
	if err != nil {
		return err
	}
	ws := scenario.Select(o.dataset, sc)
	if sc.MinItems > 0 && len(ws.Artists) < sc.MinItems {
		o.logger.Debug("scenario selection short of its floor",
			"scenario", sc.Name, "selected", len(ws.Artists), "min_items", sc.MinItems)
	}
	_, err = o.writer.WriteAll(ctx, ws)
	return err
}

// duplicateData clones every artist in the primary store factor times,
// writing the clones through the normal dual-store path so they land in both
// stores and are validated like any other record.
func (o *Orchestrator) duplicateData(ctx context.Context, factor int) error {
	artists, err := o.store.Artists.All(ctx, o.pageSize)
	if err != nil {
		return err
	}

	for _, artist := range artists {
		for range factor {
			suffix, err := id.Suffix(6)
			if err != nil {
				return err
			}
			clone := *artist
			clone.ID = artist.ID + "-" + suffix
			clone.Handle = artist.Handle + "." + suffix
			if res := o.writer.WriteArtist(ctx, &clone); res.Err != nil {
				return res.Err
			}
		}
	}
	return o.index.Refresh()
}

// rebuildIndex drops the index and replays every artist from the primary
// store. This is the one sanctioned way to repair index drift.
func (o *Orchestrator) rebuildIndex(ctx context.Context) error {
	if err := o.index.Rebuild(); err != nil {
		return err
	}

	artists, err := o.store.Artists.All(ctx, o.pageSize)
	if err != nil {
		return err
	}

	docs := make([]*search.ArtistDocument, 0, len(artists))
	for _, artist := range artists {
		docs = append(docs, search.FromArtist(artist))
	}
	if err := o.index.IndexArtists(docs); err != nil {
		return err
	}
	return o.index.Refresh()
}

// StateReport compares observed store counts against expectations for a
// named state, without mutating anything.
type StateReport struct {
	State    string              `json:"state"`
	Counts   map[domain.Kind]int `json:"counts"`
	IndexDoc int                 `json:"index_docs"`
}

// Verify reports the observable record counts for the current environment
// under the lens of the named state. It exists so callers can check a reset
// took hold without re-running it.
func (o *Orchestrator) Verify(ctx context.Context, stateName string) (*StateReport, error) {
	if _, ok := o.states[stateName]; !ok {
		return nil, domainerrors.UnknownResetState(stateName)
	}

	report := &StateReport{State: stateName, Counts: make(map[domain.Kind]int)}
	for _, kind := range domain.Kinds() {
		count, err := o.store.CountKind(ctx, kind)
		if err != nil {
			return nil, err
		}
		report.Counts[kind] = count
	}

	docs, err := o.index.Count()
	if err != nil {
		return nil, err
	}
	report.IndexDoc = int(docs)
	return report, nil
}
