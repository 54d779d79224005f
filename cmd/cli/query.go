package cli

import (
	"github.com/baarbz/DecentralizedExchange/fsm"
	"github.com/spf13/cobra"
)

var (
	fromSequence uint64
	pageLimit    int
)

func init() {
	queryCmd.AddCommand(poolCmd)
	queryCmd.AddCommand(poolsCmd)
	queryCmd.AddCommand(positionCmd)
	queryCmd.AddCommand(positionsCmd)
	queryCmd.AddCommand(balanceCmd)
	queryCmd.AddCommand(quoteCmd)
	queryCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().Uint64Var(&fromSequence, "from", 1, "first event sequence to return")
	eventsCmd.Flags().IntVar(&pageLimit, "limit", fsm.DefaultEventPageSize, "max number of events to return")
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "query the dex node",
}

var (
	poolCmd = &cobra.Command{
		Use:     "pool <assetX> <assetY>",
		Short:   "reserves and total liquidity of a pool oriented to the argument order",
		Args:    cobra.ExactArgs(2),
		Example: "dex query pool token-x token-y",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pool(fsm.AssetId(args[0]), fsm.AssetId(args[1])))
		},
	}

	poolsCmd = &cobra.Command{
		Use:   "pools",
		Short: "all pools in canonical order",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Pools())
		},
	}

	positionCmd = &cobra.Command{
		Use:   "position <assetA> <assetB> <address>",
		Short: "liquidity units held by an address in a pool",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Position(fsm.AssetId(args[0]), fsm.AssetId(args[1]), args[2]))
		},
	}

	positionsCmd = &cobra.Command{
		Use:   "positions <assetA> <assetB>",
		Short: "every liquidity position of a pool",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Positions(fsm.AssetId(args[0]), fsm.AssetId(args[1])))
		},
	}

	balanceCmd = &cobra.Command{
		Use:   "balance <asset> <address>",
		Short: "ledger balance of an address",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Balance(fsm.AssetId(args[0]), args[1]))
		},
	}

	quoteCmd = &cobra.Command{
		Use:     "quote <assetIn> <assetOut> <amountIn>",
		Short:   "simulate a swap without moving funds",
		Args:    cobra.ExactArgs(3),
		Example: "dex query quote token-x token-y 1000",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Quote(fsm.AssetId(args[0]), fsm.AssetId(args[1]), argToUint64(args[2])))
		},
	}

	eventsCmd = &cobra.Command{
		Use:   "events --from=1 --limit=100",
		Short: "committed dex events in sequence order",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.Events(fromSequence, pageLimit))
		},
	}
)
