package commands

import (
	"context"
	"time"

	"tippassist-backend/lib/configutil"
	"tippassist-backend/lib/restyutil"
	"tippassist-backend/lib/scrapers/kicktipp/core"
	"tippassist-backend/lib/scrapers/kicktipp/edit"
	"tippassist-backend/lib/scrapers/kicktipp/view"
	"tippassist-backend/lib/serviceutil"
)

type Config struct {
	BaseUrl   string `json:"baseUrl"`
	Community string `json:"community"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func createCoreClient() *core.Client {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "https://www.kicktipp.de"
	}

	if *debugHttp != "" {
		core.SetDebugOutput(restyutil.NewFilesystemOutput(*debugHttp))
	}

	coreClient, err := core.NewClient(ctx, core.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		Community: cfg.Community,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}

	if cfg.Username != "" {
		err = coreClient.LoginUsernamePassword(ctx, cfg.Username, cfg.Password)
		if err != nil {
			serviceutil.Fatal("failed to login", err)
		}
	}

	return coreClient
}

func createViewClient() view.Client {
	return view.NewClient(createCoreClient(), view.ClientOptions{})
}

func createEditClient() edit.Client {
	return edit.NewClient(createCoreClient())
}
