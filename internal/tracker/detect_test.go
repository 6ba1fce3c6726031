package tracker

import "testing"

func TestClassifyDeviceThresholds(t *testing.T) {
	cases := []struct {
		width int
		want  string
	}{
		{320, DeviceMobile},
		{767, DeviceMobile},
		{768, DeviceTablet},
		{1023, DeviceTablet},
		{1024, DeviceDesktop},
		{1920, DeviceDesktop},
	}

	for _, tc := range cases {
		if got := classifyDevice(tc.width); got != tc.want {
			t.Fatalf("width %d: expected %s, got %s", tc.width, tc.want, got)
		}
	}
}

func TestDetectBrowserOrderSensitive(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want string
	}{
		{"chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36", "Chrome"},
		// 同时带 Chrome 与 Edg 标记时必须判为 Edge，验证排除规则
		{"edge beats chrome", "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/125.0 Safari/537.36 Edg/125.0", "Edge"},
		{"firefox", "Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0", "Firefox"},
		{"safari", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", "Safari"},
		{"opera", "Opera/9.80 (Windows NT 6.1) Presto/2.12.388 Version/12.18", "Opera"},
		{"unknown", "curl/8.4.0", "unknown"},
	}

	for _, tc := range cases {
		if got := detectBrowser(tc.ua); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestDetectOSOrderSensitive(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want string
	}{
		{"windows", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", "Windows"},
		{"macos", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", "macOS"},
		{"linux", "Mozilla/5.0 (X11; Linux x86_64)", "Linux"},
		// Android UA 通常也带 Linux，按既定顺序先命中 Linux，属接受的启发式口径
		{"android is matched as linux", "Mozilla/5.0 (Linux; Android 14; Pixel 8)", "Linux"},
		{"android without linux token", "Mozilla/5.0 (Android 14; Mobile)", "Android"},
		// iPhone UA 带 "like Mac OS X"，按顺序先命中 macOS
		{"iphone with mac token", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", "macOS"},
		{"ipad without mac token", "AssoApp/2.1 (iPad; iPadOS 17)", "iOS"},
		{"unknown", "curl/8.4.0", "unknown"},
	}

	for _, tc := range cases {
		if got := detectOS(tc.ua); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
