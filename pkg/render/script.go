package render

const interactionJS = `
    (function () {
      var script = document.currentScript;
      var svg = (script && script.closest && script.closest('svg')) || document.documentElement;
      var vp = svg.querySelector('.viewport');
      if (!vp) return;
      var min = parseFloat(svg.getAttribute('data-min-scale')) || 0.2;
      var max = parseFloat(svg.getAttribute('data-max-scale')) || 4;
      var t = {
        x: parseFloat(vp.getAttribute('data-x')) || 0,
        y: parseFloat(vp.getAttribute('data-y')) || 0,
        k: parseFloat(vp.getAttribute('data-scale')) || 1
      };

      var nodes = {}, edgesTo = {};
      svg.querySelectorAll('.node').forEach(function (n) { nodes[n.getAttribute('data-path')] = n; });
      svg.querySelectorAll('.edge').forEach(function (e) { edgesTo[e.getAttribute('data-to')] = e; });

      var pending = false;
      function schedule() {
        if (pending) return;
        pending = true;
        requestAnimationFrame(function () {
          pending = false;
          vp.setAttribute('transform', 'translate(' + t.x + ' ' + t.y + ') scale(' + t.k + ')');
          vp.setAttribute('data-x', t.x);
          vp.setAttribute('data-y', t.y);
          vp.setAttribute('data-scale', t.k);
        });
      }
      function point(evt) {
        var p = svg.createSVGPoint();
        p.x = evt.clientX;
        p.y = evt.clientY;
        var m = svg.getScreenCTM();
        if (m) p = p.matrixTransform(m.inverse());
        return {x: p.x, y: p.y};
      }

      var drag = null;
      svg.addEventListener('pointerdown', function (e) {
        if (e.button !== 0 || e.target.closest('.node')) return;
        var p = point(e);
        drag = {x: p.x, y: p.y, tx: t.x, ty: t.y};
        if (svg.setPointerCapture) svg.setPointerCapture(e.pointerId);
      });
      svg.addEventListener('pointermove', function (e) {
        if (!drag) return;
        var p = point(e);
        t.x = drag.tx + p.x - drag.x;
        t.y = drag.ty + p.y - drag.y;
        schedule();
      });
      function endDrag() { drag = null; }
      svg.addEventListener('pointerup', endDrag);
      svg.addEventListener('pointercancel', endDrag);

      svg.addEventListener('wheel', function (e) {
        e.preventDefault();
        var p = point(e);
        var k = Math.min(max, Math.max(min, t.k * Math.exp(-e.deltaY * 0.0015)));
        if (k === t.k) return;
        var r = k / t.k;
        t.x = p.x - (p.x - t.x) * r;
        t.y = p.y - (p.y - t.y) * r;
        t.k = k;
        schedule();
      }, {passive: false});

      var lit = [], hovered = null;
      function clearHover() {
        lit.forEach(function (el) { el.classList.remove('hover-path', 'hovered'); });
        lit = [];
      }
      function mark(el, cls) { el.classList.add(cls); lit.push(el); }
      svg.addEventListener('pointerover', function (e) {
        var n = e.target.closest && e.target.closest('.node');
        if (n === hovered) return;
        hovered = n;
        clearHover();
        if (!n) return;
        var chain = JSON.parse(n.getAttribute('data-ancestors') || '[]');
        chain.push(n.getAttribute('data-path'));
        chain.forEach(function (key) {
          if (nodes[key]) mark(nodes[key], 'hover-path');
          if (edgesTo[key]) mark(edgesTo[key], 'hover-path');
        });
        mark(n, 'hovered');
      });
      svg.addEventListener('pointerleave', function () { hovered = null; clearHover(); });

      svg.addEventListener('click', function (e) {
        var n = e.target.closest && e.target.closest('.node');
        if (!n) return;
        var kind = e.target.closest('.toggle-hit') ? 'toggle' : 'select';
        svg.dispatchEvent(new CustomEvent('visualizeme:' + kind, {
          bubbles: true,
          detail: {path: n.getAttribute('data-path')}
        }));
      });
    })();`
