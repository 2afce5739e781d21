package cli

import (
	"fmt"

	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/usecase/rank"

	"github.com/spf13/cobra"
)

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Lender tier maintenance",
	}
	cmd.AddCommand(rankRecomputeCmd())
	return cmd
}

func rankRecomputeCmd() *cobra.Command {
	var lenderID string
	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute lender tiers from repayment history",
		Long: `Recompute lender tiers from repayment history.

Without --lender every active lender is swept, the same job the server runs
on RANK_CRON_SPEC.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			gdb, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			uc := rank.NewUsecase(mysql.NewLenderRepository(gdb), mysql.NewLoanRepository(gdb), log)
			out := cmd.OutOrStdout()

			if lenderID == "" {
				n, err := uc.RecomputeAll(cmd.Context())
				fmt.Fprintf(out, "recomputed %d lenders\n", n)
				return err
			}
			dto, err := uc.Recompute(cmd.Context(), lenderID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "lender %s: %s (completed %d, principal %s)\n",
				dto.LenderID, dto.Name, dto.Stats.CompletedLoans, dto.Stats.PrincipalCompleted.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&lenderID, "lender", "", "only this lender id")
	return cmd
}
