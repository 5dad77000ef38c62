package main

import (
	"github.com/opensante/psmap/internal/filter"
	"github.com/spf13/cobra"
)

// addFilterFlags registers the row selection flags shared by stats and
// export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("specialty", "", "Keep rows with this specialty")
	cmd.Flags().String("civility", "", "Keep rows with this civility (M, MME, DR, ...)")
	cmd.Flags().String("city", "", "Keep rows in this city")
	cmd.Flags().String("postal-code", "", "Keep rows with this postal code")
	cmd.Flags().String("department", "", "Keep rows in this department (e.g. 75, 2A)")
	cmd.Flags().String("last-name", "", "Keep rows with this last name")
	cmd.Flags().String("first-name", "", "Keep rows with this first name")
	cmd.Flags().StringP("query", "q", "", "Keep rows matching this free-text search")
	cmd.Flags().Bool("located", false, "Keep only rows with coordinates")
}

// criteriaFromFlags builds the filter criteria from the flags
// registered by addFilterFlags.
func criteriaFromFlags(cmd *cobra.Command) (filter.Criteria, error) {
	var c filter.Criteria
	var err error

	if c.Specialty, err = cmd.Flags().GetString("specialty"); err != nil {
		return c, err
	}
	if c.Civility, err = cmd.Flags().GetString("civility"); err != nil {
		return c, err
	}
	if c.City, err = cmd.Flags().GetString("city"); err != nil {
		return c, err
	}
	if c.PostalCode, err = cmd.Flags().GetString("postal-code"); err != nil {
		return c, err
	}
	if c.Department, err = cmd.Flags().GetString("department"); err != nil {
		return c, err
	}
	if c.LastName, err = cmd.Flags().GetString("last-name"); err != nil {
		return c, err
	}
	if c.FirstName, err = cmd.Flags().GetString("first-name"); err != nil {
		return c, err
	}
	if c.Query, err = cmd.Flags().GetString("query"); err != nil {
		return c, err
	}
	if c.WithCoordinates, err = cmd.Flags().GetBool("located"); err != nil {
		return c, err
	}
	return c, nil
}
