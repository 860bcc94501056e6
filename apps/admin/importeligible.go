package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core/student"
)

// importEligible adds the rows of a JSON list to the eligible list. Rows already listed are skipped.
func (cli *commandLine) importEligible(path, department string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}
	var entries []student.EligibleStudent
	if err = json.Unmarshal(data, &entries); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return cli.addEligible(context.Background(), department, entries)
}

func (cli *commandLine) addEligible(ctx context.Context, department string, entries []student.EligibleStudent) error {
	res, err := cli.students.UploadEligible(ctx, department, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d eligible students added, %d skipped\n", len(res.Added), res.Skipped)
	return nil
}
