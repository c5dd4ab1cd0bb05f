package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	APIBaseURL string // 上流ストアAPI（カート・注文・カタログ・顧客）

	JWTSecret      string   // 上流と共有するJWT署名シークレット
	EnvelopeSecret [32]byte // 退避スロットの封緘キー（hex 64桁）

	ConfirmDelay time.Duration // 注文成功後の遷移ディレイ

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:       os.Getenv("PORT"),
		APIBaseURL: os.Getenv("API_BASE_URL"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		GoEnv:      os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	secret, err := mustHex32("ENVELOPE_SECRET")
	if err != nil {
		return Config{}, err
	}
	cfg.EnvelopeSecret = secret

	// 既定1500ms（成功メッセージを見せてから遷移する）
	delayMS := 1500
	if v := os.Getenv("CONFIRM_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("CONFIRM_DELAY_MS must be a non-negative number")
		}
		delayMS = ms
	}
	cfg.ConfirmDelay = time.Duration(delayMS) * time.Millisecond

	return cfg, nil
}

func mustHex32(key string) ([32]byte, error) {
	var out [32]byte

	v := os.Getenv(key)
	if v == "" {
		return out, fmt.Errorf("%s is required", key)
	}
	raw, err := hex.DecodeString(v)
	if err != nil || len(raw) != 32 {
		return out, fmt.Errorf("%s must be 32 bytes hex encoded", key)
	}
	copy(out[:], raw)
	return out, nil
}
