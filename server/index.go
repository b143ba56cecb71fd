package server

import (
	"fmt"
	"net/http"
)

// handleIndex renders the main page: a minimal client that creates one
// simulation and animates it by ticking and re-fetching the SVG frame.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>diffgrowth - differential growth simulation</title>
  <style>
    body {
      font-family: 'Helvetica Neue', Arial, sans-serif;
      margin: 0;
      padding: 20px;
      background: #f5f5f5;
      color: #333;
    }
    .container {
      max-width: 860px;
      margin: 0 auto;
      background: white;
      padding: 30px;
      border-radius: 8px;
      box-shadow: 0 2px 10px rgba(0,0,0,0.1);
    }
    h1 { margin-top: 0; }
    #frame { border: 1px solid #e0e0e0; }
    #status { color: #888; font-size: 0.9em; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Differential growth</h1>
    <p>A closed curve of nodes that repel their neighbors, cohere to the
       curve and subdivide as they stretch.</p>
    <div id="frame"></div>
    <p id="status">starting&hellip;</p>
  </div>
  <script>
    let id = null;

    async function create() {
      const res = await fetch('/api/simulations', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({noisy: true, count: 20})
      });
      const data = await res.json();
      id = data.id;
    }

    async function step() {
      if (!id) return;
      const res = await fetch('/api/simulations/tick?id=' + id, {method: 'POST'});
      const data = await res.json();
      document.getElementById('status').textContent =
        'tick ' + data.ticks + ' / ' + data.nodes + ' nodes';
      const frame = await fetch('/visualize?id=' + id + '&width=800&height=600');
      document.getElementById('frame').innerHTML = await frame.text();
    }

    create().then(() => setInterval(step, 50));
  </script>
</body>
</html>`)
}
