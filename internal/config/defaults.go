package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "warn",
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: 30,
		},
		Send: SendConfig{
			Sender: "mattersend",
		},
		Monitor: MonitorConfig{
			Sender: "Monitor",
		},
	}
}
