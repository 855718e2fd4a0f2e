package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	clienteApp "github.com/davicafu/matafuegos/internal/cliente/application"
	extintorApp "github.com/davicafu/matafuegos/internal/extintor/application"
	tareaApp "github.com/davicafu/matafuegos/internal/tarea/application"
	usuarioApp "github.com/davicafu/matafuegos/internal/usuario/application"
	"github.com/davicafu/matafuegos/shared/platform/table"
	sharedUtils "github.com/davicafu/matafuegos/shared/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportEntities = []string{"clientes", "sucursales", "extintores", "usuarios", "tareas", "vencimientos"}

type exportOptions struct {
	format  string
	search  string
	filters []string
	sort    string
	desc    bool
	out     string
	dias    int
}

func newExportCmd(rt *runtime) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:       "export <entidad>",
		Short:     "Exporta una tabla filtrada y ordenada a CSV o XLSX",
		ValidArgs: exportEntities,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Exporta todas las filas (sin paginar) de una tabla con los mismos
filtros que la API HTTP.

Examples:
  matafuegos export extintores --filter estado=por_vencer --sort fecha_vencimiento
  matafuegos export tareas --q relevamiento --filter "created_at[from]=2025-01-01" --format xlsx --out tareas.xlsx
  matafuegos export vencimientos --dias 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close()

			w := cmd.OutOrStdout()
			if opts.out != "" {
				f, err := os.Create(opts.out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if err := runExport(cmd.Context(), a, args[0], opts, w); err != nil {
				return err
			}
			if opts.out != "" {
				rt.log.Info("📄 Exportación lista", zap.String("entidad", args[0]), zap.String("archivo", opts.out))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "csv", "formato de salida (csv|xlsx)")
	f.StringVar(&opts.search, "q", "", "búsqueda libre")
	f.StringArrayVar(&opts.filters, "filter", nil, "filtro key=value; rangos con key[from]=fecha o key[to]=fecha (repetible)")
	f.StringVar(&opts.sort, "sort", "", "columna de orden")
	f.BoolVar(&opts.desc, "desc", false, "orden descendente")
	f.StringVarP(&opts.out, "out", "o", "", "archivo de salida (por defecto stdout)")
	f.IntVar(&opts.dias, "dias", extintorApp.DiasAviso, "días de anticipación (sólo vencimientos)")
	return cmd
}

// query traduce los flags a los mismos parámetros que acepta GET /<entidad>/table.
func (o *exportOptions) query() (url.Values, error) {
	q := url.Values{}
	if o.search != "" {
		q.Set(table.ParamSearch, o.search)
	}
	if o.sort != "" {
		q.Set(table.ParamSort, o.sort)
		q.Set(table.ParamDir, string(sharedUtils.Ternary(o.desc, table.Desc, table.Asc)))
	}
	for _, raw := range o.filters {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: filtro %q, use key=value", table.ErrInvalidQuery, raw)
		}
		param := "filter[" + key + "]"
		if i := strings.Index(key, "["); i > 0 {
			param = "filter[" + key[:i] + "]" + key[i:]
		}
		q.Set(param, value)
	}
	return q, nil
}

func runExport(ctx context.Context, a *app, entity string, opts *exportOptions, w io.Writer) error {
	format, err := table.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	q, err := opts.query()
	if err != nil {
		return err
	}

	switch entity {
	case "clientes":
		return exportTable(ctx, w, format, q, clienteApp.ClienteFilters(), a.clientes.TableClientes)
	case "sucursales":
		return exportTable(ctx, w, format, q, clienteApp.SucursalFilters(), a.clientes.TableSucursales)
	case "extintores":
		return exportTable(ctx, w, format, q, a.extintores.ExtintorFilters(), a.extintores.TableExtintores)
	case "usuarios":
		return exportTable(ctx, w, format, q, usuarioApp.UsuarioFilters(), a.usuarios.TableUsuarios)
	case "tareas":
		return exportTable(ctx, w, format, q, tareaApp.TareaFilters(), a.tareas.TableTareas)
	case "vencimientos":
		t, err := a.reportes.Vencimientos(ctx, opts.dias)
		if err != nil {
			return err
		}
		return table.Write(w, format, t)
	}
	return fmt.Errorf("entidad desconocida %q (%s)", entity, strings.Join(exportEntities, "|"))
}

func exportTable[T any](ctx context.Context, w io.Writer, format table.Format, q url.Values, filters []table.FilterConfig[T], load func(context.Context, table.State) (*table.Table[T], error)) error {
	st, err := table.ParseQuery(q, filters)
	if err != nil {
		return err
	}
	t, err := load(ctx, st)
	if err != nil {
		return err
	}
	return table.Write(w, format, t)
}
