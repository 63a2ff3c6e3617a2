package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hhanh00/zcash-walletd/common"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display walletd version",
	Long:  `Display walletd version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("walletd version", common.Version)
	},
}
