// Package main provides the limadump CLI.
//
// limadump loads schema definitions from a YAML file, picks one schema and
// serializes JSON objects through it, printing the ordered result:
//
//	limadump --schemas schemas.yaml --schema camelot.KingSchema --input king.json
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/nicoddemus/lima/schema"
	"github.com/nicoddemus/lima/schemafile"
)

var (
	schemasFlag = cli.StringFlag{
		Name:  "schemas",
		Usage: "path to the YAML schema definition file",
	}
	schemaFlag = cli.StringFlag{
		Name:  "schema",
		Usage: "qualified name of the schema to dump with",
	}
	inputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "path to the JSON input object, '-' for stdin",
		Value: "-",
	}
	manyFlag = cli.BoolFlag{
		Name:  "many",
		Usage: "treat the input as an array of objects",
	}
	indentFlag = cli.BoolFlag{
		Name:  "indent",
		Usage: "pretty-print the output",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "print the resolved field set and enable engine debug logging",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "limadump"
	app.Version = "v0.1.0"
	app.Usage = "serialize JSON objects through declarative schemas"
	app.Flags = []cli.Flag{schemasFlag, schemaFlag, inputFlag, manyFlag, indentFlag, debugFlag}
	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	schemasPath := ctx.String(schemasFlag.Name)
	schemaName := ctx.String(schemaFlag.Name)

	if schemasPath == "" || schemaName == "" {
		return fmt.Errorf("both --%s and --%s are required", schemasFlag.Name, schemaFlag.Name)
	}

	if ctx.Bool(debugFlag.Name) {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}

		schema.SetLogger(logger)
	}

	f, err := schemafile.LoadFile(schemasPath)
	if err != nil {
		return err
	}

	defs, err := schemafile.Build(f)
	if err != nil {
		return err
	}

	def := findDefinition(defs, schemaName)
	if def == nil {
		return fmt.Errorf("schema %q not defined in %s", schemaName, schemasPath)
	}

	inst, err := def.New(schema.Many(ctx.Bool(manyFlag.Name)))
	if err != nil {
		return err
	}

	if ctx.Bool(debugFlag.Name) {
		fmt.Fprintf(os.Stderr, "resolved field set of %s:\n", def.Name())
		spew.Fdump(os.Stderr, inst.Fields())
	}

	obj, err := readInput(ctx.String(inputFlag.Name))
	if err != nil {
		return err
	}

	out, err := inst.Dump(obj)
	if err != nil {
		return err
	}

	return printJSON(out, ctx.Bool(indentFlag.Name))
}

func findDefinition(defs []*schema.Definition, name string) *schema.Definition {
	for _, def := range defs {
		if def.Name() == name {
			return def
		}
	}

	return nil
}

func readInput(path string) (any, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}

	return obj, nil
}

func printJSON(out any, indent bool) error {
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}

	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}

		data = buf.Bytes()
	}

	fmt.Println(string(data))

	return nil
}
