// Command imgdefctl is a small terminal client for the image definitions API.
package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/imagedefs/image-definitions-api/pkg/registry/models"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var apiBase string

	cmd := &cobra.Command{
		Use:           "imgdefctl",
		Short:         "Inspect and manage the image definitions registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&apiBase, "api", defaultAPIBase(), "Base URL of the registry API")

	cmd.AddCommand(newGroupsCommand(&apiBase))
	cmd.AddCommand(newProductsCommand(&apiBase))
	cmd.AddCommand(newVariantsCommand(&apiBase))
	cmd.AddCommand(newArtifactsCommand(&apiBase))
	cmd.AddCommand(newSummaryCommand(&apiBase))
	return cmd
}

func defaultAPIBase() string {
	if base := os.Getenv("IMGDEF_API"); base != "" {
		return base
	}
	return "http://localhost:8000"
}

func newGroupsCommand(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Product group operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newGroupsListCommand(apiBase))
	cmd.AddCommand(newGroupsCreateCommand(apiBase))
	cmd.AddCommand(newGroupsDeleteCommand(apiBase))
	return cmd
}

func newGroupsListCommand(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List product groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			var groups []models.ProductGroup
			if err := client.get(cmd.Context(), "/api/product-groups", nil, &groups); err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, g := range groups {
				fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Name, g.Description)
			}
			return w.Flush()
		},
	}
}

func newGroupsCreateCommand(apiBase *string) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product group",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			var group models.ProductGroup
			err := client.post(cmd.Context(), "/api/product-groups", models.ProductGroupPost{
				Name:        name,
				Description: description,
			}, &group)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created product group %d (%s)\n", group.ID, group.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new product group")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGroupsDeleteCommand(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product group and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			client := newClient(*apiBase)
			if err := client.delete(cmd.Context(), fmt.Sprintf("/api/product-groups/%d", id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product group %d\n", id)
			return nil
		},
	}
}

func newProductsCommand(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newProductsListCommand(apiBase))
	cmd.AddCommand(newProductsCreateCommand(apiBase))
	return cmd
}

func newProductsListCommand(apiBase *string) *cobra.Command {
	var groupID uint

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			query := map[string]string{}
			if groupID != 0 {
				query["productGroupId"] = fmt.Sprint(groupID)
			}
			var products []models.Product
			if err := client.get(cmd.Context(), "/api/products", query, &products); err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tVERSION\tGROUP")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Version, p.ProductGroupID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().UintVar(&groupID, "group", 0, "Only products in this product group")
	return cmd
}

func newProductsCreateCommand(apiBase *string) *cobra.Command {
	var (
		name    string
		version string
		groupID uint
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			var product models.Product
			err := client.post(cmd.Context(), "/api/products", models.ProductPost{
				Name:           name,
				Version:        version,
				ProductGroupID: groupID,
			}, &product)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created product %d (%s)\n", product.ID, product.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new product")
	cmd.Flags().StringVar(&version, "version", "", "Release version")
	cmd.Flags().UintVar(&groupID, "group", 0, "Product group the product belongs to")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func newVariantsCommand(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Variant operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newVariantsListCommand(apiBase))
	return cmd
}

func newVariantsListCommand(apiBase *string) *cobra.Command {
	var (
		productID uint
		arch      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			query := map[string]string{}
			if productID != 0 {
				query["productId"] = fmt.Sprint(productID)
			}
			if arch != "" {
				query["architecture"] = arch
			}
			var variants []models.Variant
			if err := client.get(cmd.Context(), "/api/variants", query, &variants); err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tARCH\tPRODUCT")
			for _, v := range variants {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", v.ID, v.Name, v.Architecture, v.ProductID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().UintVar(&productID, "product", 0, "Only variants of this product")
	cmd.Flags().StringVar(&arch, "arch", "", "Only variants for this architecture")
	return cmd
}

func newArtifactsCommand(apiBase *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Artifact operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newArtifactsListCommand(apiBase))
	cmd.AddCommand(newArtifactsStatsCommand(apiBase))
	return cmd
}

func newArtifactsListCommand(apiBase *string) *cobra.Command {
	var (
		variantID uint
		status    string
		artType   string
		region    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			query := map[string]string{}
			if variantID != 0 {
				query["variantId"] = fmt.Sprint(variantID)
			}
			if status != "" {
				query["status"] = status
			}
			if artType != "" {
				query["artifactType"] = artType
			}
			if region != "" {
				query["region"] = region
			}
			var artifacts []models.Artifact
			if err := client.get(cmd.Context(), "/api/artifacts", query, &artifacts); err != nil {
				return err
			}
			w := newTable(cmd)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tREGION\tVARIANT")
			for _, a := range artifacts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", a.ID, a.Name, a.ArtifactType, a.Status, a.Region, a.VariantID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().UintVar(&variantID, "variant", 0, "Only artifacts of this variant")
	cmd.Flags().StringVar(&status, "status", "", "Only artifacts with this status")
	cmd.Flags().StringVar(&artType, "type", "", "Only artifacts of this type")
	cmd.Flags().StringVar(&region, "region", "", "Only artifacts whose region contains this value")
	return cmd
}

func newArtifactsStatsCommand(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate artifact statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)
			var stats models.ArtifactStats
			if err := client.get(cmd.Context(), "/api/artifacts/stats/summary", nil, &stats); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Artifacts: %d (%d bytes)\n", stats.TotalArtifacts, stats.TotalSizeBytes)
			fmt.Fprintln(out, "By status:")
			for _, status := range sortedStatKeys(stats.ByStatus) {
				fmt.Fprintf(out, "  %-12s %d\n", status, stats.ByStatus[status])
			}
			fmt.Fprintln(out, "By type:")
			for _, typ := range sortedTypeKeys(stats.ByType) {
				fmt.Fprintf(out, "  %-14s %d\n", typ, stats.ByType[typ])
			}
			return nil
		},
	}
}

func newSummaryCommand(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show registry totals and artifact statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient(*apiBase)

			var (
				groups   []models.ProductGroup
				products []models.Product
				variants []models.Variant
				stats    models.ArtifactStats
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return client.get(ctx, "/api/product-groups", nil, &groups) })
			g.Go(func() error { return client.get(ctx, "/api/products", nil, &products) })
			g.Go(func() error { return client.get(ctx, "/api/variants", nil, &variants) })
			g.Go(func() error { return client.get(ctx, "/api/artifacts/stats/summary", nil, &stats) })
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Product groups: %d\n", len(groups))
			fmt.Fprintf(out, "Products:       %d\n", len(products))
			fmt.Fprintf(out, "Variants:       %d\n", len(variants))
			fmt.Fprintf(out, "Artifacts:      %d (%d bytes)\n", stats.TotalArtifacts, stats.TotalSizeBytes)
			for _, status := range sortedStatKeys(stats.ByStatus) {
				fmt.Fprintf(out, "  %-12s %d\n", status, stats.ByStatus[status])
			}
			return nil
		},
	}
}

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}
