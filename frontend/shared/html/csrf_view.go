package html

// CSRFFormScript injects a hidden _csrf field into POST forms based on the CSRF cookie.
func CSRFFormScript() string {
	return `<script>
(function () {
  function getCookie(name) {
    var prefix = name + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  function inject() {
    var token = getCookie("cws_csrf");
    if (!token) return;
    var forms = document.querySelectorAll("form[method='post'], form[method='POST']");
    for (var i = 0; i < forms.length; i++) {
      if (forms[i].querySelector("input[name='_csrf']")) continue;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = token;
      forms[i].appendChild(input);
    }
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", inject);
  } else {
    inject();
  }
})();
</script>`
}

// LiveFeedScript reloads the page when one of the watched collections is
// refetched in the background. Pages with an open form are left alone.
func LiveFeedScript(watch []string) string {
	if len(watch) == 0 {
		return ""
	}
	list := ""
	for i, c := range watch {
		if i > 0 {
			list += ","
		}
		list += `"` + c + `"`
	}
	return `<script>
(function () {
  var watched = [` + list + `];
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/cws/live");
  ws.onmessage = function (msg) {
    var ev;
    try { ev = JSON.parse(msg.data); } catch (e) { return; }
    if (watched.indexOf(ev.collection) < 0) return;
    var active = document.activeElement;
    if (active && active.form) return;
    location.reload();
  };
})();
</script>`
}
