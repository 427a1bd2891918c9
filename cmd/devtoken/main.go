// Command devtoken mints a bearer token for local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"chart_backend/internal/platform/config"
	jwtmw "chart_backend/internal/platform/jwt"
)

func main() {
	subject := flag.String("sub", "dev", "token subject")
	scopes := flag.String("scopes", jwtmw.ScopeRead+","+jwtmw.ScopeWrite, "comma separated scopes")
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	var list []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}

	token, err := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.TokenTTL).GenerateToken(*subject, list...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
