package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
)

func buildFetchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <s3-uri> <local-path>",
		Short: "Download a ZIP archive from S3 before inspecting it locally",
		Long: `fetch downloads s3://bucket/key to local-path so the other subcommands
(ls, cat, stat, extract, probe) can run against it. It does not modify the
S3 object: this module never writes, only reads.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, key, err := parseS3URI(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			awsCfg, err := config.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("archivefs fetch: loading AWS config: %w", err)
			}
			client := s3.NewFromConfig(awsCfg)

			out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
			if err != nil {
				return fmt.Errorf("archivefs fetch: s3 get %s/%s: %w", bucket, key, err)
			}
			defer out.Body.Close()

			dst, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer dst.Close()

			buf := make([]byte, 256*1024)
			for {
				n, rerr := out.Body.Read(buf)
				if n > 0 {
					if _, werr := dst.Write(buf[:n]); werr != nil {
						return werr
					}
				}
				if rerr != nil {
					if errors.Is(rerr, io.EOF) {
						return nil
					}
					return rerr
				}
			}
		},
	}
}

func parseS3URI(uri string) (bucket, key string, err error) {
	const prefix = "s3://"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", fmt.Errorf("archivefs fetch: %q: expected an s3://bucket/key URI", uri)
	}
	rest := uri[len(prefix):]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", "", fmt.Errorf("archivefs fetch: %q: missing object key", uri)
	}
	return rest[:slash], rest[slash+1:], nil
}
