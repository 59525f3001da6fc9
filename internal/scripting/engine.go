package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for rule evaluation.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: core/ first, then rules/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "rules"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// EntityView is the read-only slice of an entity handed to scripts.
type EntityView struct {
	ID          uint64
	HasLocation bool
	LocationID  uint64
	HP          int32
	MaxHP       int32
	EP          int32
	MaxEP       int32
	Attack      int32
	Defense     int32
	Traits      int
}

// TargetContext holds pre-packed data for a can-target check. Default is the
// catalog's own answer, used when the script is absent or fails.
type TargetContext struct {
	ActionID uint32
	Rule     string // "any", "self", "other"
	Actor    EntityView
	Target   EntityView
	Default  bool
}

// ProminenceContext holds pre-packed data for a prominence score.
type ProminenceContext struct {
	Entity  EntityView
	Default int64
}

// CanTarget calls the Lua can_target function.
func (e *Engine) CanTarget(ctx TargetContext) bool {
	fn := e.vm.GetGlobal("can_target")
	if fn == lua.LNil {
		return ctx.Default
	}

	t := e.vm.NewTable()
	t.RawSetString("action_id", lua.LNumber(ctx.ActionID))
	t.RawSetString("rule", lua.LString(ctx.Rule))
	t.RawSetString("default", lua.LBool(ctx.Default))
	t.RawSetString("actor", e.entityTable(ctx.Actor))
	t.RawSetString("target", e.entityTable(ctx.Target))

	ret, ok := e.call("can_target", fn, t)
	if !ok {
		return ctx.Default
	}
	return lua.LVAsBool(ret)
}

// CalcProminence calls the Lua calc_prominence function.
func (e *Engine) CalcProminence(ctx ProminenceContext) int64 {
	fn := e.vm.GetGlobal("calc_prominence")
	if fn == lua.LNil {
		return ctx.Default
	}

	t := e.entityTable(ctx.Entity)
	t.RawSetString("default", lua.LNumber(ctx.Default))

	ret, ok := e.call("calc_prominence", fn, t)
	if !ok {
		return ctx.Default
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum {
		e.log.Error("lua calc_prominence returned non-number", zap.String("type", ret.Type().String()))
		return ctx.Default
	}
	return int64(n)
}

func (e *Engine) call(name string, fn lua.LValue, arg lua.LValue) (lua.LValue, bool) {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua "+name+" error", zap.Error(err))
		return lua.LNil, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, true
}

func (e *Engine) entityTable(v EntityView) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(v.ID))
	t.RawSetString("has_location", lua.LBool(v.HasLocation))
	t.RawSetString("location_id", lua.LNumber(v.LocationID))
	t.RawSetString("hp", lua.LNumber(v.HP))
	t.RawSetString("max_hp", lua.LNumber(v.MaxHP))
	t.RawSetString("ep", lua.LNumber(v.EP))
	t.RawSetString("max_ep", lua.LNumber(v.MaxEP))
	t.RawSetString("attack", lua.LNumber(v.Attack))
	t.RawSetString("defense", lua.LNumber(v.Defense))
	t.RawSetString("traits", lua.LNumber(v.Traits))
	return t
}
