package cli

import (
	"github.com/baarbz/DecentralizedExchange/fsm"
	"github.com/spf13/cobra"
)

var minA, minB, minOut uint64

func init() {
	txCmd.AddCommand(createPoolCmd)
	txCmd.AddCommand(addLiquidityCmd)
	txCmd.AddCommand(removeLiquidityCmd)
	txCmd.AddCommand(swapXForYCmd)
	txCmd.AddCommand(swapYForXCmd)
	txCmd.AddCommand(mintCmd)
	addLiquidityCmd.Flags().Uint64Var(&minB, "min-b", 0, "minimum amount of the second asset to deposit")
	removeLiquidityCmd.Flags().Uint64Var(&minA, "min-a", 0, "minimum amount of the first asset to receive")
	removeLiquidityCmd.Flags().Uint64Var(&minB, "min-b", 0, "minimum amount of the second asset to receive")
	swapXForYCmd.Flags().Uint64Var(&minOut, "min-out", 0, "minimum amount of the output asset")
	swapYForXCmd.Flags().Uint64Var(&minOut, "min-out", 0, "minimum amount of the output asset")
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "submit dex operations to the node",
}

var (
	createPoolCmd = &cobra.Command{
		Use:     "create-pool <sender> <assetA> <assetB> <amountA> <amountB>",
		Short:   "create a pool and seed its reserves",
		Args:    cobra.ExactArgs(5),
		Example: "dex tx create-pool alice token-x token-y 100000 100000",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.CreatePool(args[0], fsm.AssetId(args[1]), fsm.AssetId(args[2]),
				argToUint64(args[3]), argToUint64(args[4])))
		},
	}

	addLiquidityCmd = &cobra.Command{
		Use:   "add-liquidity <sender> <assetA> <assetB> <amountA> --min-b=0",
		Short: "deposit at the current pool ratio for liquidity units",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.AddLiquidity(args[0], fsm.AssetId(args[1]), fsm.AssetId(args[2]),
				argToUint64(args[3]), minB))
		},
	}

	removeLiquidityCmd = &cobra.Command{
		Use:   "remove-liquidity <sender> <assetA> <assetB> <units> --min-a=0 --min-b=0",
		Short: "burn liquidity units for a proportional share of the reserves",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.RemoveLiquidity(args[0], fsm.AssetId(args[1]), fsm.AssetId(args[2]),
				argToUint64(args[3]), minA, minB))
		},
	}

	swapXForYCmd = &cobra.Command{
		Use:   "swap-x-for-y <sender> <assetX> <assetY> <amountIn> --min-out=0",
		Short: "sell the first asset for the second",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.SwapXForY(args[0], fsm.AssetId(args[1]), fsm.AssetId(args[2]),
				argToUint64(args[3]), minOut))
		},
	}

	swapYForXCmd = &cobra.Command{
		Use:   "swap-y-for-x <sender> <assetX> <assetY> <amountIn> --min-out=0",
		Short: "sell the second asset for the first",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.SwapYForX(args[0], fsm.AssetId(args[1]), fsm.AssetId(args[2]),
				argToUint64(args[3]), minOut))
		},
	}

	mintCmd = &cobra.Command{
		Use:   "mint <asset> <address> <amount>",
		Short: "credit test funds to an address",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Mint(fsm.AssetId(args[0]), args[1], argToUint64(args[2])))
		},
	}
)
