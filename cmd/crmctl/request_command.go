package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devxankit/crm-saas/internal/apiclient"
)

func newRequestCommand(a *app) *cobra.Command {
	var (
		data    string
		files   []string
		fields  []string
		headers []string
	)
	cmd := &cobra.Command{
		Use:   "request <role> <method> <path>",
		Short: "Send an authenticated request through a portal's client",
		Long: "Send an authenticated request through a portal's client.\n" +
			"--data sends a JSON body; --file and --field send multipart form data.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(args[0])
			if err != nil {
				return err
			}
			opts := apiclient.RequestOptions{Method: strings.ToUpper(args[1])}

			if len(headers) > 0 {
				opts.Headers = make(map[string]string, len(headers))
				for _, h := range headers {
					name, value, ok := strings.Cut(h, ":")
					if !ok {
						return fmt.Errorf("header %q is not name:value", h)
					}
					opts.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
				}
			}

			switch {
			case len(files) > 0 || len(fields) > 0:
				if data != "" {
					return fmt.Errorf("--data cannot be combined with --file or --field")
				}
				form, closeFiles, err := buildForm(files, fields)
				defer closeFiles()
				if err != nil {
					return err
				}
				opts.Body = form
			case data != "":
				var body any
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("--data is not valid JSON: %w", err)
				}
				opts.Body = body
			}

			raw, err := s.Request(cmd.Context(), args[2], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&files, "file", "F", nil, "multipart file as field=path")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "multipart field as name=value")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "extra header as name:value")
	return cmd
}

func buildForm(files, fields []string) (*apiclient.Form, func(), error) {
	var opened []*os.File
	closeFiles := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	form := apiclient.NewForm()
	for _, field := range fields {
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			return nil, closeFiles, fmt.Errorf("field %q is not name=value", field)
		}
		form.AddField(name, value)
	}
	for _, file := range files {
		name, path, ok := strings.Cut(file, "=")
		if !ok {
			return nil, closeFiles, fmt.Errorf("file %q is not field=path", file)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, closeFiles, err
		}
		opened = append(opened, f)
		form.AddFile(name, filepath.Base(path), f)
	}
	return form, closeFiles, nil
}
