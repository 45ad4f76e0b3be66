package model

// ================ Config ================
type ServerConfig struct {
	Addr            string `envconfig:"HTTP_ADDR" default:":8080"`
	ReadTimeout     string `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    string `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout string `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

type PipelineConfig struct {
	// ModelDir holds the five YAML artifacts; empty uses the embedded defaults.
	ModelDir        string `envconfig:"MODEL_DIR"`
	PaddingStrategy string `envconfig:"PADDING_STRATEGY" default:"baseline"`
	PaddingSeed     uint64 `envconfig:"PADDING_SEED" default:"0"`
}
