package render

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.}}</title>
<style>
body { font-family: Arial, sans-serif; text-align: center; margin: 10px; font-size: 18px; }
h1 { font-size: 20px; }
h2 { font-size: 18px; margin-bottom: 4px; }
ul { list-style: none; padding: 0; }
li { margin: 10px 0; }
a { text-decoration: none; color: blue; }
#busTimes { margin: 20px auto; line-height: 1.5; max-width: 240px; }
#busTimes li, .stop li { margin: 0; }
.error { color: #a00; }
</style>
</head>
{{end}}

{{define "stops"}}{{template "head" .Title}}<body>
<h1>Select a Bus Stop{{if .Site}} ({{.Site}}){{end}}</h1>
<ul id="stops">{{range .Stops}}
<li><a href="/stop/{{.ID}}">{{.Name}}</a></li>{{end}}
</ul>
<p id="sites">View site:{{range $i, $s := .Sites}}{{if $i}} |{{end}} <a href="/?site={{$s.Name}}">{{$s.Name}}</a>{{end}}</p>
<p><a id="board" href="/board{{if .Site}}?site={{.Site}}{{end}}">All next buses</a></p>
</body>
</html>
{{end}}

{{define "arrivalRows"}}{{range .}}
<li class="arrival">{{.Line}} to {{.Destination}}: {{.Time}} ({{.Minutes}} min)</li>{{end}}{{end}}

{{define "arrivals"}}{{template "head" .Title}}<body>
<h1>Next Buses from {{.StopName}}</h1>
{{if .Arrivals}}<ul id="busTimes">{{template "arrivalRows" .Arrivals}}
</ul>{{else}}<p id="busTimes" class="empty">No buses found.</p>{{end}}
<p id="now">Current time: {{.Now}}</p>
<p><a href="/stop/{{.StopID}}">Refresh</a> | <a href="/">Back</a></p>
</body>
</html>
{{end}}

{{define "board"}}{{template "head" .Title}}<body>
<h1>Next Buses{{if .Site}} ({{.Site}}){{end}}</h1>
{{range .Stops}}<section class="stop" data-stop="{{.StopID}}">
<h2><a href="/stop/{{.StopID}}">{{.StopName}}</a></h2>
{{if .Failed}}<p class="error">Could not load bus times.</p>{{else if .Arrivals}}<ul>{{template "arrivalRows" .Arrivals}}
</ul>{{else}}<p class="empty">No buses found.</p>{{end}}
</section>
{{end}}<p id="now">Current time: {{.Now}}</p>
<p><a href="/board{{if .Site}}?site={{.Site}}{{end}}">Refresh</a> | <a href="/{{if .Site}}?site={{.Site}}{{end}}">Back</a></p>
</body>
</html>
{{end}}
`

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Error</title>
</head>
<body>
<h1>Error</h1>
<p>Could not load bus times. <a href="/">Back</a></p>
</body>
</html>
`
