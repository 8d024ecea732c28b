package main

import (
	"log"
	"net/http"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	"github.com/victorjacobs/go-cn105/bridge"
	"github.com/victorjacobs/go-cn105/config"
	"github.com/victorjacobs/go-cn105/routes"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	var configFile string

	cmd := &cobra.Command{
		Use:   "cn105",
		Short: "Expose the vanes of a CN105 heat pump to Home Assistant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfiguration(configFile)
			if err != nil {
				return err
			}

			return run(cfg)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "cn105.json", "JSON or YAML configuration file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Configuration) error {
	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
		})
	}

	bridge, err := bridge.New(cfg)
	if err != nil {
		return err
	}

	mqttOpts := cfg.Mqtt.ClientOptions()
	// Configure MQTT subscriptions in the ConnectHandler to make sure they are set up after reconnect
	mqttOpts.SetOnConnectHandler(func(client mqtt.Client) {
		bridge.SubscribeToVaneCommands(client)
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	if err := bridge.RegisterSelects(mqttClient); err != nil {
		return err
	}

	if cfg.Nats.Enabled() {
		nc, err := cfg.Nats.Connect()
		if err != nil {
			return err
		}
		defer nc.Close()

		if err := bridge.SubscribeToNatsCommands(nc); err != nil {
			return err
		}
	}

	go loopSafely("vane poller", func() {
		bridge.PollPending()
		bridge.PublishVaneState(mqttClient)

		time.Sleep(time.Duration(cfg.UpdateInterval))
	})

	router := routes.New(bridge)

	go loopSafely("http", func() {
		if err := http.ListenAndServe(cfg.HttpAddress, router); err != nil {
			log.Printf("HTTP server stopped: %v", err)
			time.Sleep(time.Second)
		}
	})

	select {}
}
