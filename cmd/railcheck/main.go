package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	internalcli "github.com/railqa/railcheck/internal/cli"
	"github.com/railqa/railcheck/internal/config"
	"github.com/railqa/railcheck/internal/database"
	"github.com/railqa/railcheck/internal/eligibility"
	"github.com/railqa/railcheck/internal/handlers"
	"github.com/railqa/railcheck/internal/models"
	"github.com/railqa/railcheck/internal/pricing"
	"github.com/railqa/railcheck/internal/repository"
	"github.com/railqa/railcheck/internal/services"
)

var version = "0.1.0"

// buildEngine wires the pricing engine with the orders API client
func buildEngine() (*pricing.Engine, services.OrdersClient, error) {
	ordersConfig, err := config.LoadOrdersAPIConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("missing required orders API configuration: %w", err)
	}

	ordersClient := services.NewOrdersClient(ordersConfig)
	return pricing.NewEngine(pricing.DefaultTable(), ordersClient), ordersClient, nil
}

// buildServerDependencies creates all dependencies needed for the server
func buildServerDependencies() (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	// Load server configuration
	deps.ServerConfig = config.LoadServerConfig(os.Getenv)
	profile := config.LoadProfileConfig(os.Getenv)

	// Create service layer
	engine, _, err := buildEngine()
	if err != nil {
		return deps, err
	}

	repo := repository.NewReconciliationRepository()
	reconciliationService := services.NewReconciliationService(engine, repo, profile.Name)
	calculator := eligibility.NewCalculator(nil)

	// Create handlers
	deps.PriceHandler = handlers.NewPriceHandler(engine)
	deps.BoundaryHandler = handlers.NewBoundaryDOBHandler(calculator)
	deps.ReconcileHandler = handlers.NewReconcileHandler(reconciliationService)
	deps.HealthHandler = handlers.NewHealthHandler()

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the verification API server",
		Action: func(c *cli.Context) error {
			// Connect to database
			if err := database.Connect(); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()
			log.Println("Connected to database successfully")

			// Run database migrations
			if err := database.RunMigrations(); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}

			// Build all server dependencies
			deps, err := buildServerDependencies()
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// PriceCommand returns the price command
func PriceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Compute the expected price for a railcard purchase scenario",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "railcard", Usage: "railcard kind (e.g. 1625, DPRC, SENIOR)", Required: true},
			&cli.IntFlag{Name: "years", Usage: "duration in years (1 or 3)", Value: 1},
			&cli.StringFlag{Name: "sku", Usage: "product SKU for promocode validation"},
			&cli.StringFlag{Name: "promo", Usage: "promocode to apply"},
			&cli.StringFlag{Name: "delivery", Usage: "delivery type (STANDARD or SPECIAL)", Value: string(models.DeliveryStandard)},
		},
		Action: func(c *cli.Context) error {
			kind, err := models.ParseRailcardKind(c.String("railcard"))
			if err != nil {
				return err
			}

			engine, _, err := buildEngine()
			if err != nil {
				return err
			}

			quote, err := engine.Quote(c.Context, kind, c.Int("years"), c.String("promo"), c.String("sku"), models.DeliveryType(c.String("delivery")))
			if err != nil {
				return err
			}

			fmt.Printf("Expected price: £%.2f (%s)\n", quote.FinalPrice, quote)
			return nil
		},
	}
}

// DOBCommand returns the dob command
func DOBCommand() *cli.Command {
	return &cli.Command{
		Name:  "dob",
		Usage: "Generate a boundary date of birth for an age-gated railcard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "railcard", Usage: "railcard kind (1625, 2630, MATURE, SENIOR)", Required: true},
			&cli.StringFlag{Name: "boundary", Usage: "boundary direction (lower or upper)", Required: true},
			&cli.IntFlag{Name: "years", Usage: "duration in years (1 or 3)", Value: 1},
		},
		Action: func(c *cli.Context) error {
			kind, err := models.ParseRailcardKind(c.String("railcard"))
			if err != nil {
				return err
			}

			boundary, err := models.ParseBoundary(c.String("boundary"))
			if err != nil {
				return err
			}

			calculator := eligibility.NewCalculator(nil)
			dob, err := calculator.BoundaryDOB(kind, boundary, c.Int("years"))
			if err != nil {
				return err
			}

			fmt.Printf("%02d/%02d/%04d\n", dob.Day, int(dob.Month), dob.Year)
			return nil
		},
	}
}

// ApproveCommand returns the approve command
func ApproveCommand() *cli.Command {
	return &cli.Command{
		Name:  "approve",
		Usage: "Run the back-office approval flow for a Mature railcard order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order-number", Usage: "customer-facing order number", Required: true},
			&cli.StringFlag{Name: "railcard", Usage: "railcard kind of the order", Value: string(models.RailcardMature)},
		},
		Action: func(c *cli.Context) error {
			kind, err := models.ParseRailcardKind(c.String("railcard"))
			if err != nil {
				return err
			}

			crmConfig, err := config.LoadCRMConfig(os.Getenv)
			if err != nil {
				return fmt.Errorf("missing required CRM configuration: %w", err)
			}

			_, ordersClient, err := buildEngine()
			if err != nil {
				return err
			}

			processor := services.NewOrderProcessingService(services.NewCRMClient(crmConfig), ordersClient)
			return processor.ProcessMatureOrder(c.Context, c.String("order-number"), kind)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "railcheck",
		Usage:   "Railcard purchase verification tool",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
			PriceCommand(),
			DOBCommand(),
			ApproveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}
