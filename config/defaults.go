package config

import "time"

const kibanaBase = "http://172.30.215.74:5601/app/dashboards#/view/"

// NewDefaultConfig creates a configuration with the built-in target and panel tables.
func NewDefaultConfig() *Config {
	return &Config{
		OutputDir: "output",
		Headless:  true,
		Console: ConsoleConfig{
			UsernameField:  "j_username",
			PasswordField:  "j_password",
			HomePath:       "/cmf/home",
			HomeSelector:   "#main-page-content",
			HealthSelector: "#allHealthIssuesPanel > div",
			StatusSelector: "#main-page-content > div > div.status-and-charts > div.status-pane",
			HealthButton:   "Organi.*By Health Test",
			LoginTimeout:   Duration{20 * time.Second},
			VisibleTimeout: Duration{15 * time.Second},
			ButtonTimeout:  Duration{5 * time.Second},
			IdleTimeout:    Duration{30 * time.Second},
			Settle:         Duration{2 * time.Second},
			StyleSettle:    Duration{500 * time.Millisecond},
			FullViewport:   Viewport{Width: 1280, Height: 720},
			StatusViewport: Viewport{Width: 1920, Height: 4500},
		},
		Kibana: KibanaConfig{
			Panels:        defaultPanels(),
			ReadySelector: "canvas, .euiPanel",
			Zoom:          "150%",
			Viewport:      Viewport{Width: 1920, Height: 1080},
			FieldTimeout:  Duration{10 * time.Second},
			LoginTimeout:  Duration{30 * time.Second},
			IdleTimeout:   Duration{60 * time.Second},
			ReadyTimeout:  Duration{30 * time.Second},
			Settle:        Duration{10 * time.Second},
			ZoomSettle:    Duration{2 * time.Second},
		},
		Targets: []Target{
			{Label: "1_prod_cloudera", BaseURL: "http://172.30.215.101:7180", ClusterID: "1546372102", Mode: ModeFull},
			{Label: "16_desa_cloudera", BaseURL: "http://172.30.213.121:7180", ClusterID: "1546331798", Mode: ModeFull},
			{Label: "17_cdh_prod", BaseURL: "http://172.30.215.201:7180", Mode: ModeStatus},
			{Label: "18_cdh_desa", BaseURL: "http://172.30.213.201:7180", Mode: ModeStatus},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "logs/panelshot.log",
		},
		Metrics: MetricsConfig{
			Bucket: "panelshot",
		},
	}
}

func defaultPanels() []Panel {
	const window = "?_g=(refreshInterval:(pause:!f,value:1800000),time:(from:now-5d,to:now))"
	const filtered = "?_g=(filters:!(),refreshInterval:(pause:!f,value:1800000),time:(from:now-5d,to:now))"

	return []Panel{
		{Name: "2_nifi_totales", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/5ae34707-af68-4df4-8af6-c43a1bff6808" + window},
		{Name: "3_kifi1", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/b83b2d6e-0b97-42fc-9a9b-02e76f722368" + filtered},
		{Name: "4_kifi2", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/3deb7bfc-149c-4dc6-ba54-11c062cd2d7b" + filtered},
		{Name: "5_nifi_prod", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/c91f9ce9-819e-48ae-ad18-40303c0f8554" + filtered},
		{Name: "6_prod_standalone", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/6a1dbd9d-5c1d-4faf-b860-e9439f9a6118" + filtered},
		{Name: "7_kifi_dis", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/c3660adb-4716-4a5f-9d95-997df7d873a4" + filtered},
		{Name: "8_fraude", URL: kibanaBase + "424da3d5-da5b-456d-8f14-316245bf3465/4781872a-91fb-4bbd-998a-efbcb826f73c" + filtered},
		{Name: "9_heap", URL: kibanaBase + "2c0917b0-29dd-11f0-a0d3-6bbe8930ff1a/c77dc7b0-6b23-4160-9bce-0cd2c39db28c" + window},
		{Name: "10_impala_en_ejecucion", URL: kibanaBase + "c9a6a391-c283-4d98-ae3d-9902a2a43105/447a8242-e8be-4927-9531-314663bdc902" + window},
		{Name: "11_impala_por_estado", URL: kibanaBase + "c9a6a391-c283-4d98-ae3d-9902a2a43105/1efc9ca9-b0a3-46fb-a788-37a43e458536" + window},
		{Name: "12_impala_encoladas", URL: kibanaBase + "c9a6a391-c283-4d98-ae3d-9902a2a43105/5101fdc7-c24f-4ddc-929c-1c4c0a26ec9b" + window},
		{Name: "13_yarn_por_estado", URL: kibanaBase + "55243110-36ae-11f0-a0d3-6bbe8930ff1a/50b86b5b-2308-43e4-b4f0-6c1c4924c079" + window},
		{Name: "14_yarn_completadas", URL: kibanaBase + "55243110-36ae-11f0-a0d3-6bbe8930ff1a/213e232f-467b-41a4-b6e0-f6795fb0b4e5" + window},
		{Name: "15_yarn_aceptadas_ejecucion", URL: kibanaBase + "55243110-36ae-11f0-a0d3-6bbe8930ff1a/7ac1bd80-c6a5-41dd-bbde-1ce51adc7727" + window},
	}
}
