// igcfg собирает configs/values_local.yaml из базового шаблона
// configs/.values.base.yaml и переменных окружения. Удобно для деплоя:
// секреты и адреса задаются в env, а на диск попадает уже слитый конфиг.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"

	"github.com/spf13/viper"
)

const defaultOutName = "values_local.yaml"

// envOverrides: какие env-переменные перекрывают какие ключи конфига.
var envOverrides = map[string]string{
	"IG_BASE_URL":      "ig.base_url",
	"IG_CURRENCY":      "ig.currency",
	"TELEGRAM_CHAT_ID": "telegram.chat_id",
	"PUBLIC_PORT":      "service.public_port",
	"ADMIN_PORT":       "service.admin_port",
	"ORDER_SIZE":       "order_size",
	"JAEGER_HOST":      "jaeger.host",
	"JAEGER_PORT":      "jaeger.port",
}

func generateConfig(engine *viper.Viper, outDir string) (string, error) {
	for env, key := range envOverrides {
		if v := os.Getenv(env); v != "" {
			engine.Set(key, v)
		}
	}

	bs, err := yaml.Marshal(engine.AllSettings())
	if err != nil {
		return "", errors.Wrap(err, "marshal config to yaml")
	}

	out := filepath.Join(outDir, defaultOutName)
	_ = os.Remove(out)
	temp, err := os.Create(out)
	if err != nil {
		return "", errors.Wrap(err, "create "+defaultOutName)
	}
	defer func() { _ = temp.Close() }()

	if _, err = temp.Write(bs); err != nil {
		_ = os.Remove(temp.Name())
		return "", errors.Wrap(err, "write content")
	}
	return temp.Name(), nil
}

func main() {
	viper.SetConfigName(".values.base")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	out, err := generateConfig(viper.GetViper(), "configs")
	if err != nil {
		panic(fmt.Errorf("can't generate result config: %w", err))
	}
	fmt.Printf("%s file complete\n", out)
}
