package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/certops/certops/pkg/config"
	"github.com/certops/certops/pkg/lifecycle/api"
	"github.com/certops/certops/pkg/lifecycle/intake"
	"github.com/certops/certops/pkg/lifecycle/revocation"
	"github.com/certops/certops/pkg/lifecycle/rotation"
	"github.com/certops/certops/pkg/lifecycle/scheduler"
	"github.com/certops/certops/pkg/lifecycle/storage/postgres"
	"github.com/certops/certops/pkg/lifecycle/sweep"
	"github.com/certops/certops/pkg/util"
	"github.com/certops/certops/pkg/vault"
	"github.com/gobuffalo/pop"
	"github.com/gobuffalo/pop/logging"
	"github.com/sirupsen/logrus"
)

type App struct{}

type ServerCmd struct {
	Config string `short:"c" long:"config" type:"existingfile" help:"Path to the configuration file"`
}

type MigrateCmd struct {
	Config     string `short:"c" long:"config" type:"existingfile" help:"Path to the configuration file"`
	Migrations string `short:"p" long:"path" type:"existingdir" help:"Path to the migration files" default:"migrations"`
}

type RequestSubmitCmd struct {
	Requester string `short:"r" long:"requester" help:"Requester name" required:""`
	Email     string `long:"email" help:"Requester email" required:""`

	Account  string `long:"account" help:"Account the certificate belongs to" required:""`
	Role     string `long:"role" help:"Issuing role at the authority" required:""`
	CertName string `long:"cert-name" help:"Certificate name" required:""`

	CommonName   string  `long:"common-name" help:"Common name" required:""`
	Org          string  `long:"org" help:"Organization name"`
	Country      string  `long:"country" help:"Country name"`
	Province     string  `long:"province" help:"Province name"`
	Locality     string  `long:"locality" help:"Locality name"`
	TTLHours     float64 `long:"ttl" help:"Requested lifetime in hours"`
}

type RequestIssueCmd struct {
	Requester string `short:"r" long:"requester" help:"Requester name" required:""`
	ID        string `required:""`
}

type RequestRotateCmd RequestIssueCmd
type RequestRevokeCmd RequestIssueCmd

type RequestListCmd struct {
	Offset int    `long:"offset" help:"Offset" default:"0"`
	Limit  int    `long:"limit" help:"Limit" default:"50"`
	Status string `long:"status" help:"Filter by status"`
}

type RequestGetCmd struct {
	ID string `required:""`
}

type RevokeSerialCmd struct {
	Requester string `short:"r" long:"requester" help:"Requester name" required:""`
	Serial    string `required:"" help:"Certificate serial number"`
}

type RotationRunCmd struct {
	Requester string `short:"r" long:"requester" help:"Requester name" required:""`
}

type SweepRunCmd RotationRunCmd

type IssuerListCmd struct{}

type IssuerDeleteCmd struct {
	Requester string `short:"r" long:"requester" help:"Requester name" required:""`
	Ref       string `required:"" help:"Issuer reference"`
}

type LifecycleCli struct {
	Server  ServerCmd  `cmd:"" help:"Run certificate lifecycle server."`
	Migrate MigrateCmd `cmd:"" help:"Migrate database."`

	Client struct {
		Server string `short:"s" long:"server" help:"Server address" required:""`

		Request struct {
			Submit RequestSubmitCmd `cmd:""`
			Issue  RequestIssueCmd  `cmd:""`
			Rotate RequestRotateCmd `cmd:""`
			Revoke RequestRevokeCmd `cmd:""`
			List   RequestListCmd   `cmd:""`
			Get    RequestGetCmd    `cmd:""`
		} `cmd:""`

		Revoke RevokeSerialCmd `cmd:"" help:"Revoke a certificate by serial number."`

		Rotation RotationRunCmd `cmd:"" help:"Run a rotation sweep now."`
		Sweep    SweepRunCmd    `cmd:"" help:"Run a ttl sweep now."`

		Issuer struct {
			List   IssuerListCmd   `cmd:""`
			Delete IssuerDeleteCmd `cmd:""`
		} `cmd:""`
	} `cmd:""`
}

type Config struct {
	api.RestServerConfig `yaml:",inline"`
	Scheduler            scheduler.Config `yaml:"scheduler"`
}

func (*App) Run() {
	cli := LifecycleCli{}
	ctx := kong.Parse(&cli)
	err := ctx.Run(&cli)
	if err != nil {
		logrus.Errorf("failed to run command: %v", err)
		os.Exit(1)
	}
}

func (cmd *ServerCmd) Run(cli *LifecycleCli) error {
	cfg := Config{}
	if err := config.FromFile(cli.Server.Config, &cfg); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	requestStorage, err := postgres.NewStorageWithConfig(cfg.Database)
	if err != nil {
		logrus.Errorf("failed to create storage: %v", err)
		os.Exit(1)
	}

	vaultClient := vault.NewClient(cfg.Vault)
	controller := intake.NewController(requestStorage, vaultClient, vaultClient, vaultClient)
	rotator := rotation.NewRotator(requestStorage, vaultClient, vaultClient, cfg.RotationThreshold)
	revoker := revocation.NewRevoker(requestStorage, vaultClient, vaultClient)
	sweeper := sweep.NewSweeper(requestStorage)

	restServer := api.NewRestServerWithController(
		controller,
		rotator,
		revoker,
		sweeper,
		vaultClient,
		cfg.PrivateServerAddress,
		cfg.PublicServerAddress,
	)
	jobScheduler := scheduler.NewScheduler(cfg.Scheduler, rotator, sweeper)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go jobScheduler.Run(schedulerCtx)

	logrus.Info("starting certificate lifecycle server.")
	go func() {
		if err := restServer.Run(); err != nil {
			logrus.Errorf("failed to start lifecycle server: %v", err)
			os.Exit(1)
		}
	}()

	cmd.waitForInterrupt()
	stopScheduler()
	restServer.Close(context.Background())
	return nil
}

func (cmd *ServerCmd) waitForInterrupt() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server......")
}

func (cmd *MigrateCmd) Run(cli *LifecycleCli) error {
	popLogger := func(lvl logging.Level, s string, args ...interface{}) {
		switch lvl {
		case logging.Debug:
			logrus.Debugf(s, args...)
		case logging.Info:
			logrus.Infof(s, args...)
		case logging.Warn:
			logrus.Warnf(s, args...)
		case logging.Error:
			logrus.Errorf(s, args...)
		case logging.SQL:
			// Do nothing because we don't want to log SQL queries.
		}
	}

	pop.SetLogger(popLogger)
	cfg := Config{}
	if err := config.FromFile(cli.Migrate.Config, &cfg); err != nil {
		logrus.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	cd := pop.ConnectionDetails{
		Dialect:  "postgres",
		Database: cfg.Database.Database,
		Host:     cfg.Database.Host,
		Port:     fmt.Sprintf("%d", cfg.Database.Port),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
	}
	conn, err := pop.NewConnection(&cd)
	if err != nil {
		logrus.Errorf("failed to create connection: %v", err)
		os.Exit(1)
	}

	if err := conn.Dialect.CreateDB(); err != nil {
		logrus.Warnf("failed to create database: %v", err)
	}

	migrator, err := pop.NewFileMigrator(cli.Migrate.Migrations, conn)
	if err != nil {
		logrus.Errorf("failed to create migrator: %v", err)
		os.Exit(1)
	}
	// Remove SchemaPath to prevent migrator try to dump schema.
	migrator.SchemaPath = ""

	if err := migrator.Up(); err != nil {
		logrus.Errorf("failed to migrate: %v", err)
		os.Exit(1)
	}

	return nil
}

func (*RequestSubmitCmd) Run(cli *LifecycleCli) error {
	cmd := cli.Client.Request.Submit
	client := NewRestClient(cli.Client.Server, cmd.Requester)
	request, err := client.SubmitRequest(intake.SubmitRequestRequest{
		RequesterEmail: cmd.Email,
		AccountID:      cmd.Account,
		RoleName:       cmd.Role,
		CertName:       cmd.CertName,
		CommonName:     cmd.CommonName,
		Organization:   cmd.Org,
		Country:        cmd.Country,
		Province:       cmd.Province,
		Locality:       cmd.Locality,
		TTLHours:       cmd.TTLHours,
	})
	if err != nil {
		logrus.Errorf("failed to submit certificate request: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Certificate request submitted with ID: %s", request.ID)
	return nil
}

func (*RequestIssueCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Request.Issue.Requester)
	request, err := client.IssueRequest(cli.Client.Request.Issue.ID)
	if err != nil {
		logrus.Errorf("failed to issue certificate: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Certificate issued with serial: %s", request.SerialNumber)
	return nil
}

func (*RequestRotateCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Request.Rotate.Requester)
	request, err := client.RotateRequest(cli.Client.Request.Rotate.ID)
	if err != nil {
		logrus.Errorf("failed to rotate certificate: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Certificate rotated, new serial: %s", request.SerialNumber)
	return nil
}

func (*RequestRevokeCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Request.Revoke.Requester)
	request, err := client.RevokeRequest(cli.Client.Request.Revoke.ID)
	if err != nil {
		logrus.Errorf("failed to revoke certificate: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Certificate revoked with ID: %s", request.ID)
	return nil
}

func (*RequestListCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, "")
	requests, err := client.ListRequests(cli.Client.Request.List.Offset, cli.Client.Request.List.Limit, cli.Client.Request.List.Status)
	if err != nil {
		logrus.Errorf("failed to list certificate requests: %v", err)
		os.Exit(1)
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(requests)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (*RequestGetCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, "")
	request, err := client.GetRequest(cli.Client.Request.Get.ID)
	if err != nil {
		logrus.Errorf("failed to get certificate request: %v", err)
		os.Exit(1)
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(request)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (*RevokeSerialCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Revoke.Requester)
	request, err := client.RevokeSerial(cli.Client.Revoke.Serial)
	if err != nil {
		logrus.Errorf("failed to revoke certificate: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Certificate revoked with ID: %s", request.ID)
	return nil
}

func (*RotationRunCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Rotation.Requester)
	summary, err := client.RunRotation()
	if err != nil {
		logrus.Errorf("failed to run rotation: %v", err)
		os.Exit(1)
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(summary)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (*SweepRunCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Sweep.Requester)
	summary, err := client.RunSweep()
	if err != nil {
		logrus.Errorf("failed to run ttl sweep: %v", err)
		os.Exit(1)
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(summary)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (*IssuerListCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, "")
	issuers, err := client.ListIssuers()
	if err != nil {
		logrus.Errorf("failed to list issuers: %v", err)
		os.Exit(1)
	}

	pretty := bytes.Buffer{}
	json.Indent(&pretty, []byte(util.StructToJSON(issuers)), "", "  ")
	fmt.Println(pretty.String())
	return nil
}

func (*IssuerDeleteCmd) Run(cli *LifecycleCli) error {
	client := NewRestClient(cli.Client.Server, cli.Client.Issuer.Delete.Requester)
	if err := client.DeleteIssuer(cli.Client.Issuer.Delete.Ref); err != nil {
		logrus.Errorf("failed to delete issuer: %v", err)
		os.Exit(1)
	}

	logrus.Infof("Issuer deleted: %s", cli.Client.Issuer.Delete.Ref)
	return nil
}
