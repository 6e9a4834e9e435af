package agent

const queriesPrompt = `Break down the user's question into 3 to 5 distinct English web search queries.
Return one query per line, without numbering or commentary.

User question: %s
Search queries:
`

const reflectPrompt = `You are a research assistant judging whether search results are sufficient.

Original question: %s

Slots: %s

Search results:
%s

- "slots": list all information slots required by the question.
- "filled": only the slots that can be confidently filled from the results.
- If an important slot is missing or unclear, set "need_more" to true and add follow-up "new_queries".

If the results are sufficient, respond with:
{"slots": ["..."], "filled": ["..."], "need_more": false, "new_queries": []}

Otherwise respond with:
{"slots": ["..."], "filled": ["..."], "need_more": true, "new_queries": ["query1", "query2"]}

Only return valid JSON.
`

const slotsPrompt = `Extract the information "slots" that must be filled to fully answer the user question,
for example "winner", "date", "location", "teams" or "score".

Return only a JSON array of slot name strings, without explanation.

Question: %s
`

const synthesizePrompt = `You are a research assistant.

Given the question and the numbered documents below, return a JSON object with:
- "answer": a short factual answer under 80 words, using citation markers like [1], [2]
  that refer to the document numbers
- "citations": an array of objects with "id", "title" and "url" for every cited document

Only return valid JSON. Do not include backticks or markdown.

Question: %s

Documents:
%s
Format:
{"answer": "...", "citations": [{"id": 3, "title": "...", "url": "..."}]}
`
