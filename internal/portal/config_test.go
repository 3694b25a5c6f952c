package portal

import (
	"context"
	"testing"
	"time"

	"markorder/internal/order"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Getters(t *testing.T) {
	var zero Config
	assert.Equal(t, 1920, zero.GetViewportWidth())
	assert.Equal(t, 1080, zero.GetViewportHeight())
	assert.Equal(t, 20*time.Second, zero.GetStepTimeout())
	assert.Equal(t, 5*time.Second, zero.GetSuggestTimeout())

	cfg := Config{ViewportWidth: 800, ViewportHeight: 600, StepTimeout: time.Second, SuggestTimeout: 2 * time.Second}
	assert.Equal(t, 800, cfg.GetViewportWidth())
	assert.Equal(t, 600, cfg.GetViewportHeight())
	assert.Equal(t, time.Second, cfg.GetStepTimeout())
	assert.Equal(t, 2*time.Second, cfg.GetSuggestTimeout())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.False(t, cfg.Headless)
	assert.Contains(t, cfg.Flags, "disable-popup-blocking")
	assert.Equal(t, DefaultSelectors(), cfg.Selectors)
}

func TestSelectors_Merge(t *testing.T) {
	def := DefaultSelectors()
	got := Selectors{QuantityInput: "#qty"}.Merge(def)

	assert.Equal(t, "#qty", got.QuantityInput)
	assert.Equal(t, def.ProductSearchInput, got.ProductSearchInput)
	assert.Equal(t, def.SignAndSend, got.SignAndSend)
	assert.Equal(t, def, Selectors{}.Merge(def))
}

func TestIsXPath(t *testing.T) {
	sel := DefaultSelectors()
	assert.True(t, isXPath(sel.OrderNumberInput))
	assert.True(t, isXPath(sel.MadeInRussia))
	assert.True(t, isXPath(sel.ToProducts))
	assert.True(t, isXPath("(//button)[2]"))
	assert.False(t, isXPath(sel.QuantityInput))
	assert.False(t, isXPath(sel.UnitTypeField))
}

func TestBrowser_LauncherFlags(t *testing.T) {
	b := NewBrowser(Config{
		BrowserBin:  "/opt/browser/browser",
		UserDataDir: "/home/op/profile",
		Profile:     "Operator",
		Headless:    true,
		Flags:       []string{"--disable-popup-blocking", "window-size=800,600", "--"},
	})
	l := b.launcher()

	assert.Equal(t, "/opt/browser/browser", l.Get(flags.Bin))
	assert.Equal(t, "/home/op/profile", l.Get(flags.UserDataDir))
	assert.Equal(t, "Operator", l.Get(flags.Flag("profile-directory")))
	assert.True(t, l.Has(flags.Headless))
	assert.True(t, l.Has(flags.Flag("disable-popup-blocking")))
	assert.Equal(t, "800,600", l.Get(flags.Flag("window-size")))
}

func TestBrowser_NotConnectedUntilStarted(t *testing.T) {
	b := NewBrowser(DefaultConfig())
	assert.False(t, b.IsConnected())
	assert.Empty(t, b.ControlURL())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}

func stubBrowserAlive(t *testing.T, alive bool) {
	t.Helper()
	orig := browserAlive
	browserAlive = func(*rod.Browser) bool { return alive }
	t.Cleanup(func() { browserAlive = orig })
}

func TestBrowser_LiveConnectionIsKept(t *testing.T) {
	stubBrowserAlive(t, true)

	b := NewBrowser(Config{DebuggerURL: "ws://127.0.0.1:1/devtools/browser/none"})
	live := rod.New()
	b.browser = live

	b.mu.Lock()
	err := b.startLocked(context.Background())
	b.mu.Unlock()

	require.NoError(t, err)
	assert.Same(t, live, b.browser)
}

func TestBrowser_NewPageReplacesDeadConnection(t *testing.T) {
	stubBrowserAlive(t, false)

	b := NewBrowser(Config{DebuggerURL: "ws://127.0.0.1:1/devtools/browser/none"})
	b.browser = rod.New()
	b.controlURL = "ws://127.0.0.1:1/devtools/browser/old"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := b.NewPage(ctx)

	require.Error(t, err)
	assert.ErrorContains(t, err, "connect to browser")
	assert.False(t, b.IsConnected(), "the dead handle is dropped")
	assert.Empty(t, b.ControlURL())

	// Every later page retries the connection instead of reusing the dead one.
	_, err = b.NewPage(ctx)
	assert.ErrorContains(t, err, "connect to browser")
}

func TestSuccessMessage(t *testing.T) {
	d := order.Descriptor{SimplifiedName: "латекс диаг", Size: "M", UnitsPerPack: "100"}
	looked, err := order.FromLookup("Заявка 7", d, "04600000000012", "", 10)
	require.NoError(t, err)
	assert.Equal(t, "OK: латекс диаг (Заявка 7)", SuccessMessage(looked))

	looked.DisplayName = "Перчатки латексные M"
	assert.Equal(t, "OK: Перчатки латексные M (Заявка 7)", SuccessMessage(looked))

	byCode, err := order.FromCode("Заявка 8", "04600000000099", 1)
	require.NoError(t, err)
	assert.Equal(t, "OK: 04600000000099 (Заявка 8)", SuccessMessage(byCode))
}
