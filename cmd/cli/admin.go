package cli

import "github.com/spf13/cobra"

func init() {
	adminCmd.AddCommand(resourceUsageCmd)
	rootCmd.AddCommand(adminCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "operator commands for the dex node",
}

var resourceUsageCmd = &cobra.Command{
	Use:   "resource-usage",
	Short: "host and process resource usage of the node",
	Run: func(cmd *cobra.Command, args []string) {
		writeToConsole(client.ResourceUsage())
	},
}
