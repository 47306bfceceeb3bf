package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Hook function names looked up in the Lua global scope. A script only
// needs to define the hooks it cares about.
const (
	hookPlayerLogin  = "onPlayerLogin"
	hookPlayerSpawn  = "onPlayerSpawn"
	hookPlayerChat   = "onPlayerChat"
	hookPlayerMove   = "onPlayerMove"
	hookPlayerLogout = "onPlayerLogout"
)

// Engine runs user-provided Lua scripts in response to world events. One
// shared LState backs every hook; the mutex serializes calls since an
// LState is single-threaded. Script failures are logged and swallowed, a
// broken script must never take a handler down with it.
type Engine struct {
	mu     sync.Mutex
	state  *lua.LState
	logger *zap.SugaredLogger
}

// NewEngine creates an Engine and executes every *.lua file under
// scriptsDir in lexicographic order.
func NewEngine(scriptsDir string, logger *zap.SugaredLogger) (*Engine, error) {
	state := lua.NewState()
	engine := &Engine{state: state, logger: logger}
	engine.registerBuiltins()

	entries, err := os.ReadDir(scriptsDir)
	if err != nil {
		state.Close()
		return nil, fmt.Errorf("reading scripts dir %q: %w", scriptsDir, err)
	}

	var scripts []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".lua" {
			scripts = append(scripts, filepath.Join(scriptsDir, entry.Name()))
		}
	}
	sort.Strings(scripts)

	for _, script := range scripts {
		if err := state.DoFile(script); err != nil {
			state.Close()
			return nil, fmt.Errorf("loading script %q: %w", script, err)
		}
		logger.Infof("loaded script %s", script)
	}

	return engine, nil
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Close()
}

// registerBuiltins exposes the small host API available to scripts.
func (e *Engine) registerBuiltins() {
	e.state.SetGlobal("log", e.state.NewFunction(func(L *lua.LState) int {
		e.logger.Infof("script: %s", L.CheckString(1))
		return 0
	}))
}

// callHook invokes the named global function if the loaded scripts define
// it. Lua runtime errors are logged at Warn level and never propagated.
func (e *Engine) callHook(hook string, args ...lua.LValue) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.state.GetGlobal(hook)
	if fn == lua.LNil {
		return
	}

	if err := e.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.logger.Warnf("script hook %s failed: %s", hook, err)
	}
}

func (e *Engine) FirePlayerLogin(username string) {
	e.callHook(hookPlayerLogin, lua.LString(username))
}

func (e *Engine) FirePlayerSpawn(playerID int32, name string) {
	e.callHook(hookPlayerSpawn, lua.LNumber(playerID), lua.LString(name))
}

func (e *Engine) FirePlayerChat(playerID int32, name, message string) {
	e.callHook(hookPlayerChat, lua.LNumber(playerID), lua.LString(name), lua.LString(message))
}

func (e *Engine) FirePlayerMove(playerID int32, x, y int32) {
	e.callHook(hookPlayerMove, lua.LNumber(playerID), lua.LNumber(x), lua.LNumber(y))
}

func (e *Engine) FirePlayerLogout(playerID int32, name string) {
	e.callHook(hookPlayerLogout, lua.LNumber(playerID), lua.LString(name))
}
