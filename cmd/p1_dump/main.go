// Decodes captured P1 telegrams from files or stdin and prints them as JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "p1_dump",
		Short: "Inspect DSMR P1 telegrams",
	}

	decodeCmd = &cobra.Command{
		Use:   "decode [file...]",
		Short: "Decode telegrams and print them as JSON",
		Long:  "decode reads one telegram per file (or stdin when no file is given) and prints the decoded packet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDecoder()
			if len(args) == 0 {
				return runDecode(d, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				err = runDecode(d, f, cmd.OutOrStdout())
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}

	gasChannel int
	utc        bool
	verbose    bool
)

func init() {
	decodeCmd.Flags().IntVar(&gasChannel, "gas-channel", dsmr.DefaultGasChannel, "M-Bus channel of the gas meter (1-4)")
	decodeCmd.Flags().BoolVar(&utc, "utc", false, "treat meter timestamps as UTC instead of local time")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log skipped lines")
	rootCmd.AddCommand(decodeCmd)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Fatal(err)
	}
}

func newDecoder() *dsmr.Decoder {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if !verbose {
		logger.SetLevel(logrus.ErrorLevel)
	}

	opts := []dsmr.Option{dsmr.WithLogger(logger), dsmr.WithGasChannel(gasChannel)}
	if utc {
		opts = append(opts, dsmr.WithLocation(time.UTC))
	}
	return dsmr.NewDecoder(opts...)
}

func runDecode(d *dsmr.Decoder, r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	out, err := d.Decode(string(raw)).ToIndentedJson()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
