package scripting

import (
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
}

func newTestEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	engine, err := NewEngine(dir, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// globalString reads a Lua global set by a hook under test.
func (e *Engine) globalString(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lua.LVAsString(e.state.GetGlobal(name))
}

func TestEngine_DispatchesHooks(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "hooks.lua", `
last_event = ""

function onPlayerLogin(username)
    last_event = "login:" .. username
end

function onPlayerChat(player_id, name, message)
    last_event = "chat:" .. name .. ":" .. message
end

function onPlayerMove(player_id, x, y)
    last_event = string.format("move:%d:%d:%d", player_id, x, y)
end
`)

	engine := newTestEngine(t, dir)

	engine.FirePlayerLogin("alice")
	if got := engine.globalString("last_event"); got != "login:alice" {
		t.Errorf("last_event = %q, expected %q", got, "login:alice")
	}

	engine.FirePlayerChat(7, "Hero", "hi")
	if got := engine.globalString("last_event"); got != "chat:Hero:hi" {
		t.Errorf("last_event = %q, expected %q", got, "chat:Hero:hi")
	}

	engine.FirePlayerMove(7, 10, -3)
	if got := engine.globalString("last_event"); got != "move:7:10:-3" {
		t.Errorf("last_event = %q, expected %q", got, "move:7:10:-3")
	}
}

func TestEngine_UndefinedHookIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "empty.lua", `-- no hooks defined`)

	engine := newTestEngine(t, dir)

	// None of these may panic or error.
	engine.FirePlayerSpawn(1, "Hero")
	engine.FirePlayerLogout(1, "Hero")
}

func TestEngine_RuntimeErrorIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `
function onPlayerLogin(username)
    error("boom")
end
`)

	engine := newTestEngine(t, dir)
	engine.FirePlayerLogin("alice")
}

func TestEngine_LoadsScriptsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "20_second.lua", `loaded = loaded .. ",second"`)
	writeScript(t, dir, "10_first.lua", `loaded = "first"`)

	engine := newTestEngine(t, dir)

	if got := engine.globalString("loaded"); got != "first,second" {
		t.Errorf("loaded = %q, expected %q", got, "first,second")
	}
}

func TestEngine_RejectsBrokenScriptAtLoad(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "syntax.lua", `function onPlayerLogin(`)

	if _, err := NewEngine(dir, zap.NewNop().Sugar()); err == nil {
		t.Error("expected a load error for a script with a syntax error")
	}
}
