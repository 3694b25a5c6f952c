// Package portal submits marking code orders through the vendor web portal
// by driving a Chromium-family browser with go-rod.
package portal

import "time"

// DefaultURL is the warehouses page the order wizard starts from.
const DefaultURL = "https://mk.kontur.ru/organizations/5cda50fa-523f-4bb5-85b6-66d7241b23cd/warehouses"

// Config holds browser and script settings.
type Config struct {
	URL string `yaml:"url"`

	// DebuggerURL attaches to an already running browser instead of launching one.
	DebuggerURL string   `yaml:"debugger_url"`
	BrowserBin  string   `yaml:"browser_bin"`
	UserDataDir string   `yaml:"user_data_dir"`
	Profile     string   `yaml:"profile"`
	Headless    bool     `yaml:"headless"`
	Flags       []string `yaml:"flags"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	StepTimeout    time.Duration `yaml:"-"`
	SuggestTimeout time.Duration `yaml:"-"`
	SettleDelay    time.Duration `yaml:"-"`
	PageLoadDelay  time.Duration `yaml:"-"`

	ScreenshotDir string    `yaml:"screenshot_dir"`
	Selectors     Selectors `yaml:"selectors"`
}

// DefaultConfig returns the settings the portal wizard was tuned with.
func DefaultConfig() Config {
	return Config{
		URL: DefaultURL,
		Flags: []string{
			"disable-features=VizDisplayCompositor",
			"disable-popup-blocking",
			"disable-backgrounding-occluded-windows",
			"disable-blink-features=AutomationControlled",
		},
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		StepTimeout:    20 * time.Second,
		SuggestTimeout: 5 * time.Second,
		SettleDelay:    time.Second,
		PageLoadDelay:  3 * time.Second,
		ScreenshotDir:  ".",
		Selectors:      DefaultSelectors(),
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// GetStepTimeout returns the default per-step timeout.
func (c Config) GetStepTimeout() time.Duration {
	if c.StepTimeout <= 0 {
		return 20 * time.Second
	}
	return c.StepTimeout
}

// GetSuggestTimeout returns how long the product search waits for suggestions.
func (c Config) GetSuggestTimeout() time.Duration {
	if c.SuggestTimeout <= 0 {
		return 5 * time.Second
	}
	return c.SuggestTimeout
}

// Selectors locates the portal controls. Empty fields fall back to defaults,
// so a config file only needs to list the ones the portal changed.
type Selectors struct {
	ProfileCard        string `yaml:"profile_card"`
	WarehouseCard      string `yaml:"warehouse_card"`
	OrderCodes         string `yaml:"order_codes"`
	MadeInRussia       string `yaml:"made_in_russia"`
	Next               string `yaml:"next"`
	FillFromCatalog    string `yaml:"fill_from_catalog"`
	OrderNumberInput   string `yaml:"order_number_input"`
	ToRequisites       string `yaml:"to_requisites"`
	UnitTypeField      string `yaml:"unit_type_field"`
	ToProducts         string `yaml:"to_products"`
	ProductSearchInput string `yaml:"product_search_input"`
	ProductSuggestion  string `yaml:"product_suggestion"`
	QuantityInput      string `yaml:"quantity_input"`
	SendToGISMT        string `yaml:"send_to_gismt"`
	SignWithCert       string `yaml:"sign_with_cert"`
	SignAndSend        string `yaml:"sign_and_send"`
}

// DefaultSelectors returns the selectors of the current portal layout.
// Values starting with "/" or "(" are XPath, everything else is CSS.
func DefaultSelectors() Selectors {
	return Selectors{
		ProfileCard:        `//*[@id="root"]/div/div/div[1]/div[2]/div/div/div/div/div[2]/div/div/div/div/div/div/div[1]/div/div/div/div[1]/div/div`,
		WarehouseCard:      `//*[@id="root"]/div/div/div[2]/div/div/div[1]/div[3]/ul/li/div[2]`,
		OrderCodes:         `//*[@id="root"]/div/div/div[2]/div/div[1]/div/div/div[2]/div/div[2]/div/div/div/span[1]/span/button/div[2]/span[2]`,
		MadeInRussia:       `/html/body/div[5]/div/div[2]/div/div/div/div/div[2]/div[2]/div/div[1]/span/span/div/div[2]/div/label/div`,
		Next:               `/html/body/div[5]/div/div[2]/div/div/div/div/div[2]/div[3]/div/div/div/div[2]/div/div/span[1]/span/button/div[2]/span`,
		FillFromCatalog:    `//*[@id="root"]/div/div/div[2]/div/span/div/div[2]/div/div/span/div/div[2]/div`,
		OrderNumberInput:   `//*[@id="root"]/div/div/div[2]/div/span/div/div[1]/div/div[1]/div[1]/div[1]/div/span/label/span[2]/input`,
		ToRequisites:       `//button[.//span[contains(text(), 'Далее к заполнению реквизитов')]]`,
		UnitTypeField:      `[data-test-id='cisTypeField']`,
		ToProducts:         `//button[.//span[contains(text(), 'Далее к загрузке товаров')]]`,
		ProductSearchInput: `[data-test-id="productCatalogSearchInput"] input`,
		ProductSuggestion:  `[data-test-id="productCatalogSearchInput"] ul li`,
		QuantityInput:      `[data-test-id="codesQuantityInput"] input`,
		SendToGISMT:        `[data-test-id="codesOrderSendToGISMT"] button`,
		SignWithCert:       `[data-test-id="codesOrderSignCert"] button`,
		SignAndSend:        `[data-test-id="signAndSendToGISMT"] button`,
	}
}

// Merge fills empty selectors from fallback.
func (s Selectors) Merge(fallback Selectors) Selectors {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Selectors{
		ProfileCard:        pick(s.ProfileCard, fallback.ProfileCard),
		WarehouseCard:      pick(s.WarehouseCard, fallback.WarehouseCard),
		OrderCodes:         pick(s.OrderCodes, fallback.OrderCodes),
		MadeInRussia:       pick(s.MadeInRussia, fallback.MadeInRussia),
		Next:               pick(s.Next, fallback.Next),
		FillFromCatalog:    pick(s.FillFromCatalog, fallback.FillFromCatalog),
		OrderNumberInput:   pick(s.OrderNumberInput, fallback.OrderNumberInput),
		ToRequisites:       pick(s.ToRequisites, fallback.ToRequisites),
		UnitTypeField:      pick(s.UnitTypeField, fallback.UnitTypeField),
		ToProducts:         pick(s.ToProducts, fallback.ToProducts),
		ProductSearchInput: pick(s.ProductSearchInput, fallback.ProductSearchInput),
		ProductSuggestion:  pick(s.ProductSuggestion, fallback.ProductSuggestion),
		QuantityInput:      pick(s.QuantityInput, fallback.QuantityInput),
		SendToGISMT:        pick(s.SendToGISMT, fallback.SendToGISMT),
		SignWithCert:       pick(s.SignWithCert, fallback.SignWithCert),
		SignAndSend:        pick(s.SignAndSend, fallback.SignAndSend),
	}
}
