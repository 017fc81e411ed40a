package report

// reportTemplate is the HTML template for the bond report, embedded as a
// Go constant so the binary stays self-contained.
const reportTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #1d4ed8;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.5;
    max-width: 860px;
    margin: 0 auto;
    padding: 24px;
  }
  h1 { font-size: 1.4rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.1rem; margin: 24px 0 10px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .secid-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    margin-right: 8px;
  }

  table {
    width: 100%;
    border-collapse: collapse;
    font-size: 0.9rem;
    margin-bottom: 16px;
  }
  th, td {
    padding: 6px 10px;
    border-bottom: 1px solid var(--border);
    text-align: left;
  }
  th {
    background: var(--section-bg);
    font-weight: 600;
    text-transform: none;
  }
  td.num, th.num { text-align: right; }
  tr:nth-child(even) td { background: var(--section-bg); }

  .yield-box {
    background: var(--section-bg);
    border-left: 5px solid var(--accent);
    padding: 12px 16px;
    border-radius: 6px;
    margin: 16px 0;
    font-size: 1.05rem;
  }
  .yield-box .value { font-weight: 700; color: var(--accent); }

  .footer {
    margin-top: 24px;
    padding-top: 12px;
    border-top: 1px solid var(--border);
    color: var(--muted);
    font-size: 0.8rem;
  }
  @media print {
    body { padding: 0; }
    tr:nth-child(even) td { background: none; }
  }
</style>
</head>
<body>

<div class="header">
  <div>
    <h1>{{.Title}}</h1>
    <p class="muted">Облигация · Московская биржа</p>
  </div>
  <div style="text-align:right">
    <span class="secid-badge">{{.SecID}}</span>
    <p class="muted">ISIN: {{.ISIN}}</p>
  </div>
</div>

<h2>Параметры выпуска</h2>
<table>
  <tbody>
  {{range .IssueRows}}
    <tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
  {{end}}
  </tbody>
</table>

{{if .HasYield}}
<div class="yield-box">
  Доходность к погашению: <span class="value">{{.YTM}}%</span>
  <span class="muted">(цена {{.Price}}% номинала, дата оценки {{.Valuation}})</span>
</div>
{{end}}

<h2>Платежный календарь: {{.CashflowTitle}}</h2>
<table>
  <thead>
    <tr>
      <th class="num">#</th>
      <th>Дата</th>
      <th class="num">Купон</th>
      <th class="num">Погашение</th>
      <th class="num">Оферта</th>
      <th>Тип оферты</th>
      {{if .HasNominal}}<th class="num">Остаток номинала</th>{{end}}
    </tr>
  </thead>
  <tbody>
  {{range .CashflowRows}}
    <tr>
      <td class="num">{{.Num}}</td>
      <td>{{.Date}}</td>
      <td class="num">{{.Coupon}}</td>
      <td class="num">{{.Amort}}</td>
      <td class="num">{{.Offer}}</td>
      <td>{{.OfferType}}</td>
      {{if $.HasNominal}}<td class="num">{{.Nominal}}</td>{{end}}
    </tr>
  {{end}}
  </tbody>
</table>

<div class="footer">
  Сформировано {{.GeneratedAt}} по данным ИСС Московской биржи.
</div>

</body>
</html>`
