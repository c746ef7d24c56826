package cache

import "context"

// Nop caché desactivado (REDIS_ADDR vacío): nunca hay aciertos y no invalida nada.
type Nop struct{}

func (Nop) Get(context.Context, string, string, any) (bool, error) { return false, nil }

func (Nop) Set(context.Context, string, string, any) error { return nil }

func (Nop) InvalidateAll(context.Context, string) error { return nil }
