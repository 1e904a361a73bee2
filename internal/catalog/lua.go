package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/logging"
	"github.com/FlorianBx/wam/internal/platform"
)

// LuaSource loads a catalog from a Lua file of the form:
//
//	catalog = {
//	  addons = {
//	    { id = "RushHour", repo = "FlorianBx/RushHour", version = "1.0.0" },
//	    platform.when(platform.is_windows, { id = "WinOnly", repo = "me/WinOnly", version = "0.1" }),
//	  },
//	}
type LuaSource struct {
	path     string
	detector platform.Detector
	logger   *zap.Logger
}

// NewLuaSource creates a source reading path. detector may be nil, in which
// case no platform table is available to the catalog.
func NewLuaSource(path string, detector platform.Detector, logger *zap.Logger) *LuaSource {
	return &LuaSource{
		path:     path,
		detector: detector,
		logger:   logging.OrNop(logger).Named("catalog"),
	}
}

// Path returns the catalog file location.
func (s *LuaSource) Path() string {
	return s.path
}

// Load reads and evaluates the catalog file. A missing file yields an error
// matching fs.ErrNotExist.
func (s *LuaSource) Load(ctx context.Context) ([]addon.Addon, error) {
	code, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	addons, err := s.ParseString(ctx, string(code))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("user catalog loaded", zap.String("path", s.path), zap.Int("addons", len(addons)))
	return addons, nil
}

// ParseString evaluates catalog code.
func (s *LuaSource) ParseString(ctx context.Context, code string) ([]addon.Addon, error) {
	L, err := newSandboxedVM()
	if err != nil {
		return nil, err
	}
	defer L.Close()
	L.SetContext(ctx)

	if s.detector != nil {
		info, err := s.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(code); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ParseError{
			Message: "Lua error in catalog",
			Detail:  err.Error(),
		}
	}

	return extractCatalog(L)
}

// ParseError represents a catalog parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractCatalog reads the global "catalog" table.
func extractCatalog(L *lua.LState) ([]addon.Addon, error) {
	root, ok := L.GetGlobal("catalog").(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'catalog' table",
			Detail:  fmt.Sprintf("expected table, got %s", L.GetGlobal("catalog").Type()),
		}
	}

	list, ok := root.RawGetString("addons").(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'catalog.addons' list",
			Detail:  fmt.Sprintf("expected table, got %s", root.RawGetString("addons").Type()),
		}
	}

	var addons []addon.Addon
	seen := make(map[string]bool)
	var parseErr error

	list.ForEach(func(key, value lua.LValue) {
		if parseErr != nil {
			return
		}
		// nil entries come from platform conditionals
		if value.Type() == lua.LTNil {
			return
		}

		entry, ok := value.(*lua.LTable)
		if !ok {
			parseErr = &ParseError{
				Message: "invalid catalog entry",
				Detail:  fmt.Sprintf("entry %s: expected table, got %s", key.String(), value.Type()),
			}
			return
		}

		a := extractAddon(entry)
		if err := validateAddon(a); err != nil {
			parseErr = &ParseError{Message: "invalid catalog entry", Detail: fmt.Sprintf("entry %s: %v", key.String(), err)}
			return
		}
		if seen[a.ID] {
			parseErr = &ParseError{Message: "invalid catalog entry", Detail: fmt.Sprintf("duplicate addon id %q", a.ID)}
			return
		}
		seen[a.ID] = true
		addons = append(addons, a)
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return addons, nil
}

func extractAddon(table *lua.LTable) addon.Addon {
	a := addon.Addon{
		ID:          stringField(table, "id"),
		Name:        stringField(table, "name"),
		Description: stringField(table, "description"),
		Icon:        stringField(table, "icon"),
		Repo:        stringField(table, "repo"),
		Version:     stringField(table, "version"),
	}
	if a.Name == "" {
		a.Name = a.ID
	}
	return a
}

// stringField returns a string or number field as text, "" otherwise.
func stringField(table *lua.LTable, name string) string {
	switch v := table.RawGetString(name).(type) {
	case lua.LString:
		return strings.TrimSpace(string(v))
	case lua.LNumber:
		return v.String()
	default:
		return ""
	}
}

func validateAddon(a addon.Addon) error {
	if err := addon.ValidateID(a.ID); err != nil {
		return err
	}
	if _, _, err := addon.ParseRepo(a.Repo); err != nil {
		return err
	}
	if a.Version == "" {
		return fmt.Errorf("addon %q has no version", a.ID)
	}
	return nil
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	parseErr, ok := err.(*ParseError)
	if !ok {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
