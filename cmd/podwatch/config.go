package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/podwatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml to the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteExample("config.yaml"); err != nil {
			return err
		}
		fmt.Println("wrote config.yaml")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
