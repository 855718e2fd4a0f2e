// Package sucursales adapta el contexto de clientes al puerto SucursalReader.
package sucursales

import (
	"context"
	"errors"

	clienteDomain "github.com/davicafu/matafuegos/internal/cliente/domain"
	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"github.com/google/uuid"
)

// ClienteSucursales es la parte del servicio de clientes que se consulta.
type ClienteSucursales interface {
	GetSucursal(ctx context.Context, id uuid.UUID) (*clienteDomain.Sucursal, error)
	ListSucursales(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]*clienteDomain.Sucursal, error)
}

type ClienteReader struct {
	clientes ClienteSucursales
}

func NewClienteReader(clientes ClienteSucursales) *ClienteReader {
	return &ClienteReader{clientes: clientes}
}

var _ extintorDomain.SucursalReader = (*ClienteReader)(nil)

func (r *ClienteReader) GetSucursal(ctx context.Context, id uuid.UUID) (*extintorDomain.Sucursal, error) {
	s, err := r.clientes.GetSucursal(ctx, id)
	if errors.Is(err, clienteDomain.ErrSucursalNotFound) {
		return nil, extintorDomain.ErrSucursalNotFound
	}
	if err != nil {
		return nil, err
	}
	return toView(s), nil
}

func (r *ClienteReader) Sucursales(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*extintorDomain.Sucursal, error) {
	out := make(map[uuid.UUID]*extintorDomain.Sucursal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	list, err := r.clientes.ListSucursales(ctx, sharedDomain.Conditions{{Field: "id", Op: sharedDomain.OpIn, Value: values}}, nil, sharedQuery.Sort{})
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		out[s.ID] = toView(s)
	}
	return out, nil
}

func toView(s *clienteDomain.Sucursal) *extintorDomain.Sucursal {
	v := &extintorDomain.Sucursal{ID: s.ID, Nombre: s.Nombre, Localidad: s.Localidad}
	if s.Cliente != nil {
		v.Cliente = &extintorDomain.Cliente{ID: s.Cliente.ID, Nombre: s.Cliente.Nombre}
	}
	return v
}
