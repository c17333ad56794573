package server

import "os"

// DefaultBody é o corpo servido quando nenhum arquivo é configurado.
// O checker procura por "Hello from the front door!" dentro dele.
const DefaultBody = `<!DOCTYPE html>
<html>
<head><title>Front Door</title></head>
<body>
<h1>Hello from the front door!</h1>
</body>
</html>
`

// LoadBody carrega o corpo estático uma única vez na subida.
// Com path vazio usa o DefaultBody embutido.
func LoadBody(path string) ([]byte, error) {
	if path == "" {
		return []byte(DefaultBody), nil
	}
	return os.ReadFile(path)
}
