package cmd

import (
	"context"
	"os"

	"github.com/Rakhulsr/catalog-api/app/configs"
	"github.com/Rakhulsr/catalog-api/app/db/seeders"
	"github.com/Rakhulsr/catalog-api/app/models/migrations"
	"github.com/urfave/cli/v3"
)

const demoProductCount = 12

func RunCli(ctx context.Context, env configs.ENV) error {
	log := configs.NewLogger(env)

	cmd := &cli.Command{
		Name:  "catalog-api",
		Usage: "Catalog API server and maintenance tasks",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env, log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env, log)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, configs.NamedLogger(log, "db"))
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db.WithContext(ctx)); err != nil {
						return err
					}
					log.Info().Msg("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Create the admin account and default category",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "admin username", Value: env.SeedAdminUsername},
					&cli.StringFlag{Name: "password", Usage: "admin password", Value: env.SeedAdminPassword},
					&cli.BoolFlag{Name: "demo", Usage: "also insert demo products"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, configs.NamedLogger(log, "db"))
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db.WithContext(ctx)); err != nil {
						return err
					}

					opts := seeders.Options{
						AdminUsername: c.String("username"),
						AdminPassword: c.String("password"),
					}
					if c.Bool("demo") {
						opts.DemoProducts = demoProductCount
					}
					if err := seeders.DBSeed(ctx, db, opts, configs.NamedLogger(log, "seed")); err != nil {
						return err
					}
					if opts.AdminPassword == "ChangeMe123!" {
						log.Warn().Msg("admin uses the default password, change it before going live")
					}
					log.Info().Msg("seed complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new JWT signing secrets for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateAndPrintSessionKeys(os.Stdout)
				},
			},
		},
	}

	return cmd.Run(ctx, os.Args)
}
