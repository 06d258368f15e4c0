package memory

import "sync"

// faults fallas programadas por operación, para ejercitar rutas de error en pruebas.
type faults struct {
	fmu sync.Mutex
	m   map[string]error
}

// FailOn hace que la operación op devuelva err hasta que se llame a Heal.
func (f *faults) FailOn(op string, err error) {
	f.fmu.Lock()
	defer f.fmu.Unlock()
	if f.m == nil {
		f.m = make(map[string]error)
	}
	f.m[op] = err
}

// Heal elimina todas las fallas programadas.
func (f *faults) Heal() {
	f.fmu.Lock()
	defer f.fmu.Unlock()
	f.m = nil
}

func (f *faults) fault(op string) error {
	f.fmu.Lock()
	defer f.fmu.Unlock()
	return f.m[op]
}
