package server

import (
	"fmt"
	"net/http"
)

// handleIndex serves the embedded viewer page: a three.js scene holding
// one point set and one line-segment set whose position/color buffers
// are rewritten from each websocket frame.
func (v *View) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, viewerPage, v.cfg.Background, v.cfg.FOV)
}

const viewerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>pulsegraph</title>
  <script src="https://cdnjs.cloudflare.com/ajax/libs/three.js/0.160.0/three.min.js"></script>
  <style>
    body, html { margin: 0; padding: 0; height: 100%%; overflow: hidden; background: %s; }
    canvas { display: block; }
  </style>
</head>
<body>
  <script>
  const scene = new THREE.Scene();
  const camera = new THREE.PerspectiveCamera(%f, window.innerWidth / Math.max(1, window.innerHeight), 0.1, 1000);
  camera.position.z = 40;

  const renderer = new THREE.WebGLRenderer({ antialias: true, alpha: true });
  renderer.setSize(window.innerWidth, window.innerHeight);
  document.body.appendChild(renderer.domElement);

  let points = null;
  let lines = null;

  function setAttr(geometry, name, values) {
    const attr = geometry.getAttribute(name);
    if (attr && attr.count * 3 === values.length) {
      attr.copyArray(values);
      attr.needsUpdate = true;
    } else {
      geometry.setAttribute(name, new THREE.Float32BufferAttribute(values, 3));
    }
  }

  const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  const ws = new WebSocket(proto + location.host + '/ws');

  ws.onmessage = (ev) => {
    const frame = JSON.parse(ev.data);
    const b = frame.buffers;

    if (!points) {
      const pg = new THREE.BufferGeometry();
      points = new THREE.Points(pg, new THREE.PointsMaterial({ size: 0.7, vertexColors: true }));
      scene.add(points);

      const lg = new THREE.BufferGeometry();
      lines = new THREE.LineSegments(lg, new THREE.LineBasicMaterial({
        vertexColors: true, transparent: true, opacity: 0.7
      }));
      scene.add(lines);
    }

    setAttr(points.geometry, 'position', b.vertex_positions);
    setAttr(points.geometry, 'color', b.vertex_colors);
    setAttr(lines.geometry, 'position', b.edge_positions);
    setAttr(lines.geometry, 'color', b.edge_colors);
  };

  window.addEventListener('resize', () => {
    camera.aspect = window.innerWidth / Math.max(1, window.innerHeight);
    camera.updateProjectionMatrix();
    renderer.setSize(window.innerWidth, window.innerHeight);
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify({ type: 'resize', width: window.innerWidth, height: window.innerHeight }));
    }
  });

  function animate() {
    requestAnimationFrame(animate);
    renderer.render(scene, camera);
  }
  animate();
  </script>
</body>
</html>
`
