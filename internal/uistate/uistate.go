// Package uistate implements component I's three persisted documents: UI
// configuration, volatile UI state, and task state (the task database
// plus tag catalog), each behind its own internal/capguard directory
// capability.
//
// Grounded on original_source/src/state.rs, src/ser/state.rs and
// src/ui/config.rs for the document shapes, and
// src/ser/backends/ical/tasks_meta.rs for the task-state round trip.
package uistate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/deso/notnow/internal/capguard"
	"github.com/deso/notnow/internal/paths"
	"github.com/deso/notnow/internal/serialize"
	"github.com/deso/notnow/internal/serialize/ical"
	"github.com/deso/notnow/internal/tags"
	"github.com/deso/notnow/internal/task"
	"github.com/deso/notnow/internal/taskdb"
)

// Color names a palette slot symbolically; the event loop's renderer maps
// these to whatever the terminal actually supports. Kept abstract rather
// than carrying raw RGB/ANSI values, matching the rich-text-rendering
// non-goal.
type Color string

const (
	ColorReset       Color = "reset"
	ColorBrightGreen Color = "bright_green"
	ColorSoftRed     Color = "soft_red"
	ColorBlack       Color = "color0"
	ColorWhite       Color = "color15"
	ColorGray235     Color = "color235"
	ColorGray240     Color = "color240"
)

// Palette names the colors used for each UI element. Grounded on
// state.rs's Colors struct, with symbolic names in place of RGB triples.
type Palette struct {
	MoreTasksFG Color `json:"more_tasks_fg"`
	MoreTasksBG Color `json:"more_tasks_bg"`

	SelectedQueryFG   Color `json:"selected_query_fg"`
	SelectedQueryBG   Color `json:"selected_query_bg"`
	UnselectedQueryFG Color `json:"unselected_query_fg"`
	UnselectedQueryBG Color `json:"unselected_query_bg"`

	SelectedTaskFG   Color `json:"selected_task_fg"`
	SelectedTaskBG   Color `json:"selected_task_bg"`
	UnselectedTaskFG Color `json:"unselected_task_fg"`
	UnselectedTaskBG Color `json:"unselected_task_bg"`

	TaskNotStartedFG Color `json:"task_not_started_fg"`
	TaskNotStartedBG Color `json:"task_not_started_bg"`
	TaskDoneFG       Color `json:"task_done_fg"`
	TaskDoneBG       Color `json:"task_done_bg"`
}

// DefaultPalette mirrors state.rs's Colors::default field values.
func DefaultPalette() Palette {
	return Palette{
		MoreTasksFG: ColorBlack, MoreTasksBG: ColorBrightGreen,

		SelectedQueryFG: ColorWhite, SelectedQueryBG: ColorGray240,
		UnselectedQueryFG: ColorWhite, UnselectedQueryBG: ColorGray235,

		SelectedTaskFG: ColorWhite, SelectedTaskBG: ColorGray240,
		UnselectedTaskFG: ColorBlack, UnselectedTaskBG: ColorReset,

		TaskNotStartedFG: ColorSoftRed, TaskNotStartedBG: ColorReset,
		TaskDoneFG: ColorBrightGreen, TaskDoneBG: ColorReset,
	}
}

// ViewConfig is a persisted view: a name plus its filter formula, in the
// grammar internal/formula parses.
type ViewConfig struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// UIConfig is the notnow.json document: palette, an optional toggle-tag
// name, and the ordered list of configured views.
type UIConfig struct {
	Palette   Palette      `json:"palette"`
	ToggleTag string       `json:"toggle_tag,omitempty"`
	Views     []ViewConfig `json:"views"`
}

// DefaultUIConfig returns the configuration used when no notnow.json
// exists yet: the default palette and a single view matching everything.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		Palette: DefaultPalette(),
		Views:   []ViewConfig{{Name: "all"}},
	}
}

// UIState is the ui-state.json document: the UI's own ephemeral layout
// state. Its contents beyond the selected tab are opaque to this package
// — they are the event loop's concern, stored and restored verbatim.
type UIState struct {
	SelectedTab    int            `json:"selected_tab"`
	ViewSelections map[string]int `json:"view_selections,omitempty"`
}

func loadJSONOrDefault[T any](path string, def T) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return def, err
	}
	var codec serialize.JSON[T]
	return codec.Deserialize(data)
}

func saveJSON[T any](fc *capguard.FileCap, v T) error {
	var codec serialize.JSON[T]
	data, err := codec.Serialize(v)
	if err != nil {
		return err
	}
	return fc.WithWriteablePath(func(path string) error {
		return os.WriteFile(path, data, 0o644)
	})
}

// LoadUIConfig loads notnow.json from path, falling back to
// DefaultUIConfig if the file does not exist, and adding a catch-all
// "all" view if the loaded configuration has none.
func LoadUIConfig(path string) (UIConfig, error) {
	cfg, err := loadJSONOrDefault(path, DefaultUIConfig())
	if err != nil {
		return UIConfig{}, fmt.Errorf("loading UI config from %s: %w", path, err)
	}
	if len(cfg.Views) == 0 {
		cfg.Views = append(cfg.Views, ViewConfig{Name: "all"})
	}
	return cfg, nil
}

// SaveUIConfig persists cfg through fc.
func SaveUIConfig(fc *capguard.FileCap, cfg UIConfig) error {
	return saveJSON(fc, cfg)
}

// LoadUIState loads ui-state.json from path, falling back to the zero
// value if the file does not exist.
func LoadUIState(path string) (UIState, error) {
	state, err := loadJSONOrDefault(path, UIState{})
	if err != nil {
		return UIState{}, fmt.Errorf("loading UI state from %s: %w", path, err)
	}
	return state, nil
}

// SaveUIState persists state through fc.
func SaveUIState(fc *capguard.FileCap, state UIState) error {
	return saveJSON(fc, state)
}

const metadataFileName = "metadata.ics"

func taskFileName(id uuid.UUID) string {
	return id.String() + ".ics"
}

// LoadTaskState reconstructs a tag catalog and task database from the
// iCal documents under dir: one file per task plus metadata.ics for the
// catalog and task ordering. Tasks present on disk but absent from the
// persisted order (left behind by an interrupted save) are appended at
// the end rather than silently dropped.
func LoadTaskState(dir string) (*tags.Catalog, *taskdb.Db[task.Task, struct{}], error) {
	catalog := tags.NewCatalog()

	var order []uuid.UUID
	metaPath := filepath.Join(dir, metadataFileName)
	if data, err := os.ReadFile(metaPath); err == nil {
		order, err = ical.MetadataFromICal(string(data), catalog)
		if err != nil {
			return nil, nil, fmt.Errorf("loading task metadata from %s: %w", metaPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]*task.Task, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == metadataFileName || filepath.Ext(entry.Name()) != ".ics" {
			continue
		}
		taskPath := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(taskPath)
		if err != nil {
			return nil, nil, err
		}
		tk, err := ical.TaskFromICal(string(data), catalog)
		if err != nil {
			return nil, nil, fmt.Errorf("loading task from %s: %w", taskPath, err)
		}
		byID[tk.ID] = tk
	}

	pairs := make([]taskdb.Pair[task.Task, struct{}], 0, len(byID))
	seen := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if tk, ok := byID[id]; ok {
			pairs = append(pairs, taskdb.Pair[task.Task, struct{}]{Item: *tk})
			seen[id] = true
		}
	}
	for id, tk := range byID {
		if !seen[id] {
			pairs = append(pairs, taskdb.Pair[task.Task, struct{}]{Item: *tk})
		}
	}

	db, _ := taskdb.FromItems(pairs)
	return catalog, db, nil
}

// SaveTaskState persists every task in db as its own iCal document under
// guard, plus a metadata.ics carrying the tag catalog and task ordering.
func SaveTaskState(guard *capguard.WriteGuard, catalog *tags.Catalog, db *taskdb.Db[task.Task, struct{}]) error {
	order := make([]uuid.UUID, 0, db.Len())
	for tk := range db.All() {
		order = append(order, tk.ID)

		fc := guard.FileCap(taskFileName(tk.ID))
		data := []byte(ical.TaskToICal(tk))
		if err := fc.WithWriteablePath(func(path string) error {
			return os.WriteFile(path, data, 0o644)
		}); err != nil {
			return fmt.Errorf("saving task %s: %w", tk.ID, err)
		}
	}

	metaFC := guard.FileCap(metadataFileName)
	metaData := []byte(ical.MetadataToICal(catalog, order))
	if err := metaFC.WithWriteablePath(func(path string) error {
		return os.WriteFile(path, metaData, 0o644)
	}); err != nil {
		return fmt.Errorf("saving task metadata: %w", err)
	}
	return nil
}

// Documents bundles the three persisted documents behind their own
// directory capabilities and enforces the save order spec.md requires:
// task state first, then UI config, then UI state.
type Documents struct {
	paths paths.Paths

	configCap *capguard.DirCap
	tasksCap  *capguard.DirCap
	stateCap  *capguard.DirCap
}

// Open protects the three document directories and returns a Documents
// ready for loading and saving.
func Open(p paths.Paths) (*Documents, error) {
	configCap, err := capguard.ForDir(p.UIConfigDir())
	if err != nil {
		return nil, fmt.Errorf("protecting config dir: %w", err)
	}
	tasksCap, err := capguard.ForDir(p.TasksDir())
	if err != nil {
		return nil, fmt.Errorf("protecting tasks dir: %w", err)
	}
	stateCap, err := capguard.ForDir(p.UIStateDir())
	if err != nil {
		return nil, fmt.Errorf("protecting state dir: %w", err)
	}
	return &Documents{paths: p, configCap: configCap, tasksCap: tasksCap, stateCap: stateCap}, nil
}

// Close permanently restores user-write on all three document
// directories, undoing the protection Open put in place. Call this on
// every exit path, clean or not, so the directories are left writeable
// for the user rather than stuck read-only.
func (d *Documents) Close() {
	d.configCap.Unprotect()
	d.tasksCap.Unprotect()
	d.stateCap.Unprotect()
}

// LoadUIConfig loads the UI configuration document.
func (d *Documents) LoadUIConfig() (UIConfig, error) {
	return LoadUIConfig(filepath.Join(d.paths.UIConfigDir(), paths.UIConfigFile))
}

// LoadUIState loads the volatile UI state document.
func (d *Documents) LoadUIState() (UIState, error) {
	return LoadUIState(filepath.Join(d.paths.UIStateDir(), paths.UIStateFile))
}

// LoadTaskState loads the task database and tag catalog.
func (d *Documents) LoadTaskState() (*tags.Catalog, *taskdb.Db[task.Task, struct{}], error) {
	return LoadTaskState(d.paths.TasksDir())
}

// SaveAll persists all three documents in the order spec.md requires:
// task state, then UI config, then UI state. A failure partway through
// leaves an inconsistent on-disk set; this is accepted, matching
// spec.md's filesystem consistency note.
func (d *Documents) SaveAll(catalog *tags.Catalog, db *taskdb.Db[task.Task, struct{}], cfg UIConfig, state UIState) error {
	tasksGuard, err := d.tasksCap.Write()
	if err != nil {
		return fmt.Errorf("unlocking tasks dir: %w", err)
	}
	defer tasksGuard.Close()
	if err := SaveTaskState(tasksGuard, catalog, db); err != nil {
		return err
	}

	configGuard, err := d.configCap.Write()
	if err != nil {
		return fmt.Errorf("unlocking config dir: %w", err)
	}
	defer configGuard.Close()
	if err := SaveUIConfig(configGuard.FileCap(paths.UIConfigFile), cfg); err != nil {
		return fmt.Errorf("saving UI config: %w", err)
	}

	stateGuard, err := d.stateCap.Write()
	if err != nil {
		return fmt.Errorf("unlocking state dir: %w", err)
	}
	defer stateGuard.Close()
	if err := SaveUIState(stateGuard.FileCap(paths.UIStateFile), state); err != nil {
		return fmt.Errorf("saving UI state: %w", err)
	}
	return nil
}
