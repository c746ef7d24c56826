package entity

// BusinessEntity entidad de negocio del servicio remoto (tienda, bodega, proveedor, cliente).
// Solo lectura: este servicio nunca la persiste.
type BusinessEntity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
	External bool   `json:"external"`
	Active   bool   `json:"active"`
}
