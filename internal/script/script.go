// Package script embeds a Lua interpreter for declaring shortcuts. A
// script sees a global hotkey table and can register definitions whose
// default actions are Lua functions.
//
// Example script:
//
//	hotkey.register("save", "ctrl+s", {
//	    priority = 10,
//	    group = "file",
//	    action = function(ev)
//	        print("saving after " .. ev.chord)
//	    end,
//	})
package script

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hotkey/internal/key"
	"github.com/dshills/hotkey/internal/shortcut"
)

// Runtime owns a Lua state bound to a shortcut registry.
type Runtime struct {
	// mu serializes access to the Lua state. gopher-lua states are not
	// safe for concurrent use, and actions registered from Lua may fire
	// from the engine while a script is still running.
	mu       sync.Mutex
	state    *lua.LState
	registry *shortcut.Registry
	closed   bool
}

// New creates a runtime bound to reg and installs the hotkey table.
func New(reg *shortcut.Registry) *Runtime {
	r := &Runtime{
		state:    lua.NewState(),
		registry: reg,
	}
	r.install()
	return r
}

// RunFile executes a Lua script from a file.
func (r *Runtime) RunFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("script runtime is closed")
	}
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}
	return nil
}

// RunString executes Lua source directly.
func (r *Runtime) RunString(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("script runtime is closed")
	}
	if err := r.state.DoString(src); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

// Close releases the Lua state. Actions registered by scripts become
// no-ops after Close.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// install builds the hotkey table in the Lua state.
func (r *Runtime) install() {
	L := r.state
	mod := L.NewTable()

	L.SetField(mod, "register", L.NewFunction(r.luaRegister))
	L.SetField(mod, "unregister", L.NewFunction(r.luaUnregister))
	L.SetField(mod, "enable", L.NewFunction(r.luaEnable))
	L.SetField(mod, "disable", L.NewFunction(r.luaDisable))
	L.SetField(mod, "get", L.NewFunction(r.luaGet))
	L.SetField(mod, "list", L.NewFunction(r.luaList))
	L.SetField(mod, "groups", L.NewFunction(r.luaGroups))

	L.SetGlobal("hotkey", mod)
}

// register(id, keys, opts?) -> nil
// opts: priority, group, context, scope, disabled, description, action
func (r *Runtime) luaRegister(L *lua.LState) int {
	id := L.CheckString(1)
	keys := L.CheckString(2)

	if id == "" {
		L.ArgError(1, "id cannot be empty")
		return 0
	}
	if keys == "" {
		L.ArgError(2, "keys cannot be empty")
		return 0
	}

	def := shortcut.Definition{Trigger: keys}

	if L.GetTop() >= 3 {
		opts := L.CheckTable(3)
		def.Priority = tableInt(L, opts, "priority")
		def.Group = tableString(L, opts, "group")
		def.Context = tableString(L, opts, "context")
		def.Description = tableString(L, opts, "description")

		switch scope := tableString(L, opts, "scope"); scope {
		case "", "global":
		case "local":
			def.Scope = shortcut.ScopeLocal
		default:
			L.RaiseError("register: unknown scope %q", scope)
			return 0
		}

		if tableBool(L, opts, "disabled") {
			def.Status = shortcut.StatusDisabled
		}

		if fn, ok := L.GetField(opts, "action").(*lua.LFunction); ok {
			def.DefaultAction = r.wrapAction(fn)
		}
	}

	r.registry.Register(id, def)
	return 0
}

// unregister(id) -> bool
func (r *Runtime) luaUnregister(L *lua.LState) int {
	id := L.CheckString(1)
	existed := r.registry.Has(id)
	r.registry.Unregister(id)
	L.Push(lua.LBool(existed))
	return 1
}

// enable(id) -> bool
func (r *Runtime) luaEnable(L *lua.LState) int {
	id := L.CheckString(1)
	err := r.registry.Enable(id)
	L.Push(lua.LBool(err == nil))
	return 1
}

// disable(id) -> bool
func (r *Runtime) luaDisable(L *lua.LState) int {
	id := L.CheckString(1)
	err := r.registry.Disable(id)
	L.Push(lua.LBool(err == nil))
	return 1
}

// get(id) -> table or nil
func (r *Runtime) luaGet(L *lua.LState) int {
	id := L.CheckString(1)
	def, ok := r.registry.Get(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(r.definitionTable(L, id, def))
	return 1
}

// list(group?) -> {tables...}
func (r *Runtime) luaList(L *lua.LState) int {
	group := L.OptString(1, "")

	var defs map[string]shortcut.Definition
	if group == "" {
		defs = r.registry.All()
	} else {
		defs = r.registry.ByGroup(group)
	}

	result := L.NewTable()
	idx := 1
	for id, def := range defs {
		result.RawSetInt(idx, r.definitionTable(L, id, def))
		idx++
	}
	L.Push(result)
	return 1
}

// groups() -> {strings...}
func (r *Runtime) luaGroups(L *lua.LState) int {
	result := L.NewTable()
	for i, g := range r.registry.Groups() {
		result.RawSetInt(i+1, lua.LString(g))
	}
	L.Push(result)
	return 1
}

// wrapAction turns a Lua function into a shortcut action. The returned
// action re-enters the Lua state under the runtime lock and receives a
// table describing the key event.
func (r *Runtime) wrapAction(fn *lua.LFunction) shortcut.Action {
	return func(ev key.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			return nil
		}

		L := r.state
		tbl := L.NewTable()
		L.SetField(tbl, "key", lua.LString(ev.Name))
		L.SetField(tbl, "chord", lua.LString(ev.Chord()))

		mods := L.NewTable()
		for i, m := range ev.Mods.Names() {
			mods.RawSetInt(i+1, lua.LString(m))
		}
		L.SetField(tbl, "mods", mods)

		return L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, tbl)
	}
}

func (r *Runtime) definitionTable(L *lua.LState, id string, def shortcut.Definition) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "id", lua.LString(id))
	L.SetField(tbl, "keys", lua.LString(def.Trigger))
	L.SetField(tbl, "priority", lua.LNumber(def.Priority))
	L.SetField(tbl, "group", lua.LString(def.Group))
	L.SetField(tbl, "context", lua.LString(def.Context))
	L.SetField(tbl, "description", lua.LString(def.Description))
	L.SetField(tbl, "disabled", lua.LBool(def.Status == shortcut.StatusDisabled))
	if def.Scope == shortcut.ScopeLocal {
		L.SetField(tbl, "scope", lua.LString("local"))
	} else {
		L.SetField(tbl, "scope", lua.LString("global"))
	}
	L.SetField(tbl, "sequence", lua.LBool(def.Kind == shortcut.KindSequence))
	return tbl
}

func tableString(L *lua.LState, tbl *lua.LTable, field string) string {
	if str, ok := L.GetField(tbl, field).(lua.LString); ok {
		return string(str)
	}
	return ""
}

func tableInt(L *lua.LState, tbl *lua.LTable, field string) int {
	if num, ok := L.GetField(tbl, field).(lua.LNumber); ok {
		return int(num)
	}
	return 0
}

func tableBool(L *lua.LState, tbl *lua.LTable, field string) bool {
	if b, ok := L.GetField(tbl, field).(lua.LBool); ok {
		return bool(b)
	}
	return false
}
