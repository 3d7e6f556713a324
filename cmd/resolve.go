package main

import (
	"context"
	"io"

	"github.com/okian/swaggerui/pkg/logger"
)

// runResolve prints the bytes the UI would serve for p.
func runResolve(ctx context.Context, configPath, p string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	svc := newService(cfg, logger.Nop(), false)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	body, err := svc.Asset(ctx, p)
	if err != nil {
		return err
	}
	_, err = out.Write(body)
	return err
}
